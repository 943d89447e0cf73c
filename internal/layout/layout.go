// Package layout merges individually recognized words into lines using an
// anisotropic distance: vertical misalignment is penalized more heavily
// than horizontal gaps, so words on the same text line merge even across
// wide spacing while words one line apart stay separate.
package layout

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/ocrresult"
)

const (
	horizontalWeight = 0.67
	verticalWeight   = 2.0
	mergeThreshold   = 1.0
)

// MergeWords groups words into lines: two words merge when their AA
// rectangles' vertical midlines are within 2x the larger word's height and
// their nearest corners are within a normalized anisotropic distance <= 1.
// Each resulting line is text-joined left-to-right by word x-position,
// space-separated; confidence is the mean of its words' confidences.
func MergeWords(words []ocrresult.Word) []ocrresult.Line {
	n := len(words)
	if n == 0 {
		return nil
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if shouldMerge(words[i].BoundingBox.AARect, words[j].BoundingBox.AARect) {
				union(i, j)
			}
		}
	}

	groups := map[int][]int{}
	for i := 0; i < n; i++ {
		r := find(i)
		groups[r] = append(groups[r], i)
	}

	ids := make([]int, 0, len(groups))
	for r := range groups {
		ids = append(ids, r)
	}
	sort.Ints(ids)

	lines := make([]ocrresult.Line, 0, len(groups))
	for idx, r := range ids {
		members := groups[r]
		sort.Slice(members, func(a, b int) bool {
			return words[members[a]].BoundingBox.AARect.X < words[members[b]].BoundingBox.AARect.X
		})

		line := buildLine(words, members, idx)
		lines = append(lines, line)
	}
	return lines
}

// shouldMerge implements the anisotropic-distance test: midlines within
// 2*maxHeight, nearest-corner distance (weighted 0.67 horizontal, 2.0
// vertical) <= 1 after normalizing by the smaller word's height.
func shouldMerge(a, b geometry.AARectangle) bool {
	midA := float64(a.Y) + float64(a.Height)/2
	midB := float64(b.Y) + float64(b.Height)/2
	maxH := math.Max(float64(a.Height), float64(b.Height))
	if maxH == 0 {
		return false
	}
	if math.Abs(midA-midB) > 2*maxH {
		return false
	}

	minH := math.Min(float64(a.Height), float64(b.Height))
	if minH == 0 {
		return false
	}

	dx, dy := nearestCornerDelta(a, b)
	dist := math.Hypot(dx*horizontalWeight/minH, dy*verticalWeight/minH)
	return dist <= mergeThreshold
}

// nearestCornerDelta returns the horizontal and vertical gap between the
// closest pair of corners of two axis-aligned rectangles (zero along an
// axis where the rectangles overlap on that axis).
func nearestCornerDelta(a, b geometry.AARectangle) (dx, dy float64) {
	aLeft, aRight := float64(a.X), float64(a.X+a.Width)
	bLeft, bRight := float64(b.X), float64(b.X+b.Width)
	aTop, aBottom := float64(a.Y), float64(a.Y+a.Height)
	bTop, bBottom := float64(b.Y), float64(b.Y+b.Height)

	switch {
	case aRight < bLeft:
		dx = bLeft - aRight
	case bRight < aLeft:
		dx = aLeft - bRight
	default:
		dx = 0
	}

	switch {
	case aBottom < bTop:
		dy = bTop - aBottom
	case bBottom < aTop:
		dy = aTop - bBottom
	default:
		dy = 0
	}
	return dx, dy
}

func buildLine(words []ocrresult.Word, members []int, idx int) ocrresult.Line {
	var texts []string
	var wordIDs []string
	var confidenceSum float64
	var allPoints []geometry.Point
	minX, minY := math.MaxInt32, math.MaxInt32
	maxX, maxY := math.MinInt32, math.MinInt32

	for _, m := range members {
		w := words[m]
		texts = append(texts, w.Text)
		wordIDs = append(wordIDs, w.ID)
		confidenceSum += w.Confidence
		allPoints = append(allPoints, w.BoundingBox.Polygon.Points...)

		r := w.BoundingBox.AARect
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.X+r.Width > maxX {
			maxX = r.X + r.Width
		}
		if r.Y+r.Height > maxY {
			maxY = r.Y + r.Height
		}
	}

	hull := geometry.Hull(allPoints)
	box := ocrresult.BoundingBox{
		Polygon: hull,
		AARect:  geometry.AARectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY},
		ORect:   geometry.MinAreaRect(hull),
	}

	return ocrresult.Line{
		ID:          lineID(idx),
		BoundingBox: box,
		Confidence:  confidenceSum / float64(len(members)),
		Text:        strings.Join(texts, " "),
		WordIDs:     wordIDs,
	}
}

func lineID(idx int) string {
	return fmt.Sprintf("line-%d", idx)
}
