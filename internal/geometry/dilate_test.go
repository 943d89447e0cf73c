package geometry

import "testing"

func square(side int) Polygon {
	return Polygon{Points: []Point{{0, 0}, {side, 0}, {side, side}, {0, side}}}
}

func TestDilateEmptyForFewerThanThreePoints(t *testing.T) {
	p := Polygon{Points: []Point{{0, 0}, {1, 1}}}
	if !Dilate(p, 1.5).Empty() {
		t.Fatal("expected empty dilation for a 2-point polygon")
	}
}

func TestDilateEmptyForTinyArea(t *testing.T) {
	tiny := Polygon{Points: []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}} // area 4 < 9
	if !Dilate(tiny, 1.5).Empty() {
		t.Fatal("expected empty dilation for area under 9 square pixels")
	}
}

func TestDilateGrowsBoundingBox(t *testing.T) {
	p := square(20)
	d := Dilate(p, DefaultDilationRatio)
	if d.Empty() {
		t.Fatal("expected a non-empty dilation")
	}
	origBox := p.BoundingAARectangle()
	dilBox := d.BoundingAARectangle()
	if dilBox.Width <= origBox.Width || dilBox.Height <= origBox.Height {
		t.Fatalf("expected dilation to grow the bounding box: orig=%v dil=%v", origBox, dilBox)
	}
}

func TestDilateMonotonicInRatio(t *testing.T) {
	p := square(20)
	small := Dilate(p, 1.0)
	large := Dilate(p, 2.0)

	smallArea := small.BoundingAARectangle().Width * small.BoundingAARectangle().Height
	largeArea := large.BoundingAARectangle().Width * large.BoundingAARectangle().Height
	if largeArea < smallArea {
		t.Fatalf("expected larger ratio to never shrink bounding-box area: small=%d large=%d", smallArea, largeArea)
	}
}

func TestDilateRoundJoinsStayWithinOnePixelSteps(t *testing.T) {
	p := square(20)
	d := Dilate(p, DefaultDilationRatio)
	pts := d.Points
	// Every corner of the square contributes the same run of points; the
	// last step of each run is the straight offset edge to the next corner,
	// which is not part of a round join.
	if len(pts) == 0 || len(pts)%len(p.Points) != 0 {
		t.Fatalf("expected an equal run of points per corner, got %d points", len(pts))
	}
	perCorner := len(pts) / len(p.Points)
	for i := 0; i < len(pts); i++ {
		if (i+1)%perCorner == 0 {
			continue
		}
		a := pts[i].ToPointF()
		b := pts[(i+1)%len(pts)].ToPointF()
		step := dist(a, b)
		if step > 1.5 {
			t.Fatalf("dilation boundary step too large between vertex %d and %d: %f", i, (i+1)%len(pts), step)
		}
	}
}
