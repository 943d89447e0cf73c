package recognizer

import (
	"context"
	"testing"

	"github.com/screenager/ocrcore/internal/dictionary"
	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/logbook"
	"github.com/screenager/ocrcore/internal/pixbuf"
	"github.com/screenager/ocrcore/internal/runner"
	"github.com/screenager/ocrcore/internal/tensor"
)

func rectAt(x, y, w, h float64) geometry.OrientedRectangle {
	return geometry.OrientedRectangle{Corners: [4]geometry.PointF{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	}}
}

func TestPreprocessZeroAreaRegion(t *testing.T) {
	img, _ := pixbuf.New(make([]byte, 100*100*3), 100, 100)
	_, ok := preprocess(img, rectAt(10, 10, 0, 0))
	if ok {
		t.Fatal("expected zero-area region to fail preprocessing")
	}
}

func TestPreprocessProducesFixedShape(t *testing.T) {
	img, _ := pixbuf.New(make([]byte, 100*40*3), 100, 40)
	in, ok := preprocess(img, rectAt(0, 0, 100, 40))
	if !ok {
		t.Fatal("expected preprocessing to succeed")
	}
	if in.Shape[0] != 3 || in.Shape[1] != TargetHeight || in.Shape[2] != TargetWidth {
		t.Fatalf("expected shape [3 %d %d], got %v", TargetHeight, TargetWidth, in.Shape)
	}
}

// fakeModel emits a fixed class sequence regardless of input, for
// end-to-end exercising of Recognize's tensor plumbing.
type fakeModel struct {
	timesteps, classes int
	argmaxClass        int
}

func (m fakeModel) Run(in tensor.Tensor) (tensor.Tensor, error) {
	data := make([]float32, m.timesteps*m.classes)
	for t := 0; t < m.timesteps; t++ {
		for c := 0; c < m.classes; c++ {
			if c == m.argmaxClass {
				data[t*m.classes+c] = 0.9
			} else {
				data[t*m.classes+c] = 0.01
			}
		}
	}
	return tensor.New(data, []int{1, m.timesteps, m.classes}), nil
}

func TestRecognizeZeroAreaReturnsEmptyNotError(t *testing.T) {
	img, _ := pixbuf.New(make([]byte, 100*100*3), 100, 100)
	run := runner.New(fakeModel{timesteps: 1, classes: dictionary.Size, argmaxClass: 1}, 1, logbook.New())
	rec := New(run)

	res, err := rec.Recognize(context.Background(), img, rectAt(10, 10, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "" || res.Confidence != 0 {
		t.Fatalf("expected empty result for zero-area region, got %+v", res)
	}
}

func TestRecognizeDecodesModelOutput(t *testing.T) {
	img, _ := pixbuf.New(make([]byte, 100*40*3), 100, 40)
	run := runner.New(fakeModel{timesteps: 3, classes: dictionary.Size, argmaxClass: 5}, 1, logbook.New())
	rec := New(run)

	res, err := rec.Recognize(context.Background(), img, rectAt(0, 0, 100, 40))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := string(dictionary.IndexToChar(5))
	if res.Text != want {
		t.Fatalf("expected %q, got %q", want, res.Text)
	}
}
