package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/screenager/ocrcore/internal/logbook"
	"github.com/screenager/ocrcore/internal/ocrerr"
	"github.com/screenager/ocrcore/internal/tensor"
)

// recordingModel captures the shape it was invoked with and echoes data
// back unchanged.
type recordingModel struct {
	gotShape []int
}

func (m *recordingModel) Run(in tensor.Tensor) (tensor.Tensor, error) {
	m.gotShape = in.Shape
	return tensor.New(in.Data, in.Shape), nil
}

func TestRunPrependsAndStripsBatchDimension(t *testing.T) {
	m := &recordingModel{}
	r := New(m, 1, logbook.New())

	in := tensor.New([]float32{1, 2, 3, 4}, []int{2, 2})
	h := r.Run(context.Background(), in)
	out, err := h.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.gotShape) != 3 || m.gotShape[0] != 1 || m.gotShape[1] != 2 || m.gotShape[2] != 2 {
		t.Fatalf("expected model to see shape [1 2 2], got %v", m.gotShape)
	}
	if len(out.Shape) != 2 || out.Shape[0] != 2 || out.Shape[1] != 2 {
		t.Fatalf("expected stripped output shape [2 2], got %v", out.Shape)
	}
}

func TestRunSurfacesBadShape(t *testing.T) {
	m := &recordingModel{}
	r := New(m, 1, logbook.New())

	in := tensor.New(nil, nil)
	h := r.Run(context.Background(), in)
	_, err := h.Wait()
	if !errors.Is(err, ocrerr.BadShape) {
		t.Fatalf("expected BadShape, got %v", err)
	}
}

type failingModel struct{}

func (failingModel) Run(tensor.Tensor) (tensor.Tensor, error) {
	return tensor.Tensor{}, errors.New("boom")
}

func TestRunSurfacesInferenceFailed(t *testing.T) {
	r := New(failingModel{}, 1, logbook.New())
	h := r.Run(context.Background(), tensor.New([]float32{1}, []int{1}))
	_, err := h.Wait()
	if !errors.Is(err, ocrerr.InferenceFailed) {
		t.Fatalf("expected InferenceFailed, got %v", err)
	}
}
