// Package dashboard is a live BubbleTea view of pipeline telemetry:
// tick-driven refresh, a lipgloss palette/style table, single-key quit.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/screenager/ocrcore/internal/logbook"
	"github.com/screenager/ocrcore/internal/metrics"
)

var (
	colorAccent = lipgloss.Color("#7C6AF7")
	colorMuted  = lipgloss.Color("#888888")
	colorText   = lipgloss.Color("#DDDDDD")
	colorGood   = lipgloss.Color("#5AF078")
	colorWarn   = lipgloss.Color("#F5C35E")

	sTitle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	sLabel = lipgloss.NewStyle().Foreground(colorMuted)
	sValue = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	sGood  = lipgloss.NewStyle().Foreground(colorGood)
	sWarn  = lipgloss.NewStyle().Foreground(colorWarn)
)

const refreshInterval = 500 * time.Millisecond
const sampleWindow = 10 * time.Second

type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Stage names one of the pipeline's tunable executors for display.
type Stage struct {
	Name  string
	Tunable metrics.Tunable
}

// Model is the BubbleTea application model for the live dashboard.
type Model struct {
	stages []Stage
	lb     *logbook.LogBook
	clock  func() time.Duration
	snaps  []metrics.Snapshot
	bars   []progress.Model
}

// New builds a dashboard Model polling stages' queue depth/cap against
// lb's rolling window. clock supplies the current elapsed time (normally
// clock.Now).
func New(stages []Stage, lb *logbook.LogBook, clock func() time.Duration) Model {
	bars := make([]progress.Model, len(stages))
	for i := range bars {
		bars[i] = progress.New(progress.WithGradient("#5AF078", "#F5C35E"), progress.WithoutPercentage(), progress.WithWidth(30))
	}
	return Model{stages: stages, lb: lb, clock: clock, snaps: make([]metrics.Snapshot, len(stages)), bars: bars}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		now := m.clock()
		cmds := make([]tea.Cmd, 0, len(m.stages))
		for i, s := range m.stages {
			m.snaps[i] = metrics.Sample(s.Tunable, m.lb, now, sampleWindow)
			ratio := 0.0
			if cap := m.snaps[i].MaxParallelism; cap > 0 {
				ratio = float64(m.snaps[i].QueueDepth) / float64(cap)
			}
			cmds = append(cmds, m.bars[i].SetPercent(clampRatio(ratio)))
		}
		cmds = append(cmds, tick())
		return m, tea.Batch(cmds...)
	case progress.FrameMsg:
		cmds := make([]tea.Cmd, 0, len(m.bars))
		for i := range m.bars {
			updated, cmd := m.bars[i].Update(msg)
			if pm, ok := updated.(progress.Model); ok {
				m.bars[i] = pm
			}
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func clampRatio(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(sTitle.Render("ocrctl — live pipeline telemetry"))
	b.WriteString("\n\n")

	for i, s := range m.stages {
		snap := m.snaps[i]
		b.WriteString(fmt.Sprintf("%s\n", sTitle.Render(s.Name)))
		b.WriteString(fmt.Sprintf("  %s %s   %s %s\n",
			sLabel.Render("queue_depth:"), depthStyle(snap).Render(fmt.Sprintf("%d", snap.QueueDepth)),
			sLabel.Render("max_parallelism:"), sValue.Render(fmt.Sprintf("%d", snap.MaxParallelism))))
		b.WriteString(fmt.Sprintf("  %s %s   %s %s\n",
			sLabel.Render("throughput/s:"), sValue.Render(fmt.Sprintf("%.2f", snap.AvgThroughput)),
			sLabel.Render("avg_duration:"), sValue.Render(snap.AvgDuration.Round(time.Millisecond).String())))
		b.WriteString("  " + m.bars[i].View() + "\n")
		b.WriteString("\n")
	}

	b.WriteString(sLabel.Render("[q] quit"))
	return b.String()
}

// depthStyle highlights a deep queue (relative to its cap) in warning
// color; this is purely a display cue, the tuner's own threshold governs
// actual parallelism changes.
func depthStyle(s metrics.Snapshot) lipgloss.Style {
	if s.MaxParallelism > 0 && s.QueueDepth >= s.MaxParallelism {
		return sWarn
	}
	return sGood
}
