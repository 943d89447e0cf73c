// Package pipeline composes the detector and recognizer stages, fans in
// images, fans out structured results, and enforces end-to-end capacity.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/screenager/ocrcore/internal/detector"
	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/layout"
	"github.com/screenager/ocrcore/internal/ocrerr"
	"github.com/screenager/ocrcore/internal/ocrresult"
	"github.com/screenager/ocrcore/internal/pixbuf"
	"github.com/screenager/ocrcore/internal/recognizer"
)

// Handle is the outer level of the pipeline's two-level read handle:
// Admitted resolves when the image clears the global capacity semaphore;
// Wait resolves to the finished page (or the stage failure that produced
// it).
type Handle struct {
	admitted chan struct{}
	done     chan struct{}
	result   ocrresult.Page
	err      error
}

// Admitted returns a channel that closes once the image has acquired
// pipeline capacity and begun processing.
func (h *Handle) Admitted() <-chan struct{} { return h.admitted }

// Wait blocks until the page finishes and returns its result.
func (h *Handle) Wait() (ocrresult.Page, error) {
	<-h.done
	return h.result, h.err
}

// Pipeline composes a Detector and Recognizer behind a global admission
// semaphore sized max_parallelism x max_batch_size x 2.
type Pipeline struct {
	det *detector.Detector
	rec *recognizer.Recognizer
	cap chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

// New builds a Pipeline. capacity is max_parallelism*max_batch_size*2; the
// caller computes it from whatever executor tuning configuration it used
// to build det/rec's runners.
func New(det *detector.Detector, rec *recognizer.Recognizer, capacity int) *Pipeline {
	if capacity < 1 {
		capacity = 1
	}
	return &Pipeline{
		det:    det,
		rec:    rec,
		cap:    make(chan struct{}, capacity),
		closed: make(chan struct{}),
	}
}

// ReadOne submits img for processing and returns a two-level Handle: the
// outer level resolves on admission (a capacity permit acquired), the
// inner on completion of the full detect+recognize+layout pipeline.
func (p *Pipeline) ReadOne(ctx context.Context, pageNumber int, img pixbuf.Buffer) *Handle {
	h := &Handle{admitted: make(chan struct{}), done: make(chan struct{})}

	go func() {
		defer close(h.done)

		select {
		case <-p.closed:
			close(h.admitted)
			h.err = ocrerr.CapacityExhausted
			return
		default:
		}

		select {
		case <-ctx.Done():
			close(h.admitted)
			h.err = ocrerr.Cancelled
			return
		case <-p.closed:
			close(h.admitted)
			h.err = ocrerr.CapacityExhausted
			return
		case p.cap <- struct{}{}:
		}
		defer func() { <-p.cap }()
		close(h.admitted)

		page, err := p.process(ctx, pageNumber, img)
		h.result = page
		h.err = err
	}()

	return h
}

// ReadMany processes every image from in, emitting results on the
// returned channel in completion order (not input order). The channel
// closes once in is drained and every submitted image has completed, or
// once ctx is cancelled. Backpressure on the output channel blocks
// completed-but-unconsumed results, which blocks admission of further
// images, which blocks draining in — the intended backpressure chain.
func (p *Pipeline) ReadMany(ctx context.Context, in <-chan pixbuf.Buffer) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		var wg sync.WaitGroup
		page := 0
		for {
			select {
			case <-ctx.Done():
				wg.Wait()
				return
			case img, ok := <-in:
				if !ok {
					wg.Wait()
					return
				}
				page++
				n := page
				wg.Add(1)
				go func(img pixbuf.Buffer, n int) {
					defer wg.Done()
					h := p.ReadOne(ctx, n, img)
					result, err := h.Wait()
					select {
					case out <- Result{Page: result, Err: err}:
					case <-ctx.Done():
					}
				}(img, n)
			}
		}
	}()
	return out
}

// Result is one emission of ReadMany's output stream.
type Result struct {
	Page ocrresult.Page
	Err  error
}

// Close stops accepting new admissions; subsequent ReadOne calls fail
// immediately with CapacityExhausted. Images already admitted run to
// completion; Close returns without waiting for them.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() { close(p.closed) })
}

func (p *Pipeline) process(ctx context.Context, pageNumber int, img pixbuf.Buffer) (ocrresult.Page, error) {
	regions, err := p.det.Detect(ctx, img)
	if err != nil {
		return ocrresult.Page{}, err
	}
	if len(regions) == 0 {
		return ocrresult.Page{PageNumber: pageNumber}, nil
	}

	words := make([]ocrresult.Word, 0, len(regions))
	for _, region := range regions {
		decoded, err := p.rec.Recognize(ctx, img, region.ORect)
		if err != nil {
			return ocrresult.Page{}, err
		}
		words = append(words, ocrresult.Word{
			ID: fmt.Sprintf("word-%s", uuid.NewString()),
			BoundingBox: ocrresult.BoundingBox{
				Polygon: region.Polygon,
				AARect:  region.AARect,
				ORect:   region.ORect,
			},
			Confidence: decoded.Confidence,
			Text:       decoded.Text,
		})
	}

	lines := layout.MergeWords(words)
	block := wholePageBlock(lines)

	return ocrresult.Page{
		PageNumber: pageNumber,
		Blocks:     []ocrresult.Block{block},
		Lines:      lines,
		Words:      words,
	}, nil
}

// wholePageBlock groups every line into a single block. Block is part of
// the result schema, but there is no rule for splitting a page into
// multiple blocks, so every page's lines form one block by default (see
// DESIGN.md).
func wholePageBlock(lines []ocrresult.Line) ocrresult.Block {
	ids := make([]string, len(lines))
	var confidenceSum float64
	var texts []string
	var allPoints []geometry.Point
	for i, l := range lines {
		ids[i] = l.ID
		confidenceSum += l.Confidence
		texts = append(texts, l.Text)
		allPoints = append(allPoints, l.BoundingBox.Polygon.Points...)
	}
	confidence := 0.0
	if len(lines) > 0 {
		confidence = confidenceSum / float64(len(lines))
	}

	hull := geometry.Hull(allPoints)
	box := ocrresult.BoundingBox{
		Polygon: hull,
		AARect:  hull.BoundingAARectangle(),
		ORect:   geometry.MinAreaRect(hull),
	}

	return ocrresult.Block{
		ID:          "block-0",
		BoundingBox: box,
		Confidence:  confidence,
		Text:        strings.Join(texts, "\n"),
		LineIDs:     ids,
	}
}
