package reliefmap

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/ocrerr"
)

func TestNewRejectsBadDimensions(t *testing.T) {
	if _, err := New(make([]float64, 4), 0, 4); !errors.Is(err, ocrerr.BadDimensions) {
		t.Fatalf("expected BadDimensions, got %v", err)
	}
	if _, err := New(make([]float64, 5), 2, 2); !errors.Is(err, ocrerr.BadDimensions) {
		t.Fatalf("expected BadDimensions for mismatched length, got %v", err)
	}
}

func TestBinarizeStrictGreater(t *testing.T) {
	rm, err := New([]float64{0.1, 0.2, 0.2, 0.3}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	rm.Binarize(0.2)
	want := []float64{0, 0, 0, 1}
	for i, w := range want {
		if rm.data[i] != w {
			t.Fatalf("cell %d: want %v got %v", i, w, rm.data[i])
		}
	}
}

func TestOpenRemovesSinglePixelNoise(t *testing.T) {
	// A 5x5 grid with an isolated 1-pixel at the center and nothing else.
	data := make([]float64, 25)
	data[2*5+2] = 1
	rm, err := New(data, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	rm.Open(1)
	for i, v := range rm.data {
		if v != 0 {
			t.Fatalf("expected single-pixel noise removed, cell %d = %v", i, v)
		}
	}
}

func TestOpenPreservesSolidBlock(t *testing.T) {
	// A 6x6 grid with a solid 4x4 block of 1s should survive opening.
	w, h := 6, 6
	data := make([]float64, w*h)
	for y := 1; y <= 4; y++ {
		for x := 1; x <= 4; x++ {
			data[y*w+x] = 1
		}
	}
	rm, err := New(data, w, h)
	if err != nil {
		t.Fatal(err)
	}
	rm.Open(1)
	if rm.at(2, 2) != 1 {
		t.Fatalf("expected interior of solid block to survive opening, got %v", rm.at(2, 2))
	}
}

func TestFloodFillSilentOnNonPositiveSeed(t *testing.T) {
	rm, err := New([]float64{0, 0, 0, 0}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	rm.FloodFill(geometry.Point{X: 0, Y: 0})
	for _, v := range rm.data {
		if v == visited {
			t.Fatal("expected no fill for a non-positive seed")
		}
	}
}

func TestFloodFillMarksConnectedComponent(t *testing.T) {
	w, h := 4, 4
	data := make([]float64, w*h)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			data[y*w+x] = 1
		}
	}
	rm, err := New(data, w, h)
	if err != nil {
		t.Fatal(err)
	}
	rm.FloodFill(geometry.Point{X: 0, Y: 0})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if rm.at(x, y) != visited {
				t.Fatalf("expected (%d,%d) filled", x, y)
			}
		}
	}
}

func TestTraceAllBoundariesSingleUse(t *testing.T) {
	w, h := 6, 6
	data := make([]float64, w*h)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			data[y*w+x] = 1
		}
	}
	rm, err := New(data, w, h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rm.TraceAllBoundaries(); err != nil {
		t.Fatalf("unexpected error on first trace: %v", err)
	}
	if _, err := rm.TraceAllBoundaries(); !errors.Is(err, ocrerr.AlreadyTraced) {
		t.Fatalf("expected AlreadyTraced on second call, got %v", err)
	}
}

func TestTraceAllBoundariesEightConnectedNoDuplicates(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const size = 50

	for trial := 0; trial < 20; trial++ {
		data := make([]float64, size*size)
		cx, cy := 10+rnd.Intn(30), 10+rnd.Intn(30)
		radius := 5 + rnd.Intn(10)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dx, dy := x-cx, y-cy
				if dx*dx+dy*dy <= radius*radius {
					data[y*size+x] = 1
				}
			}
		}
		rm, err := New(data, size, size)
		if err != nil {
			t.Fatal(err)
		}
		polys, err := rm.TraceAllBoundaries()
		if err != nil {
			t.Fatal(err)
		}
		for _, poly := range polys {
			checkEightConnectedNoDuplicates(t, poly)
		}
	}
}

func checkEightConnectedNoDuplicates(t *testing.T, poly geometry.Polygon) {
	t.Helper()
	seen := map[geometry.Point]bool{}
	for i, p := range poly.Points {
		if seen[p] {
			t.Fatalf("duplicate vertex in traced boundary: %v", p)
		}
		seen[p] = true
		if i == 0 {
			continue
		}
		prev := poly.Points[i-1]
		dx, dy := abs(p.X-prev.X), abs(p.Y-prev.Y)
		if dx > 1 || dy > 1 || (dx == 0 && dy == 0) {
			t.Fatalf("boundary not 8-connected between %v and %v", prev, p)
		}
	}
	first, last := poly.Points[0], poly.Points[len(poly.Points)-1]
	if abs(first.X-last.X) > 2 || abs(first.Y-last.Y) > 2 {
		t.Fatalf("start/end not within Chebyshev 2: %v, %v", first, last)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
