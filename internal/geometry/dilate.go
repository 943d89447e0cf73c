package geometry

import "math"

// DefaultDilationRatio is the ratio applied in the detector post-processing
// pipeline absent any override.
const DefaultDilationRatio = 1.5

// minInterestingArea is the minimum polygon area, in squared pixels, below
// which dilation yields an empty polygon instead of a sliver region.
const minInterestingArea = 9

// Dilate offsets p outward by d = Area(p)*ratio/Perimeter(p), rounding
// convex corners with a quarter-circle arc sampled finely enough that no
// straight segment exceeds one pixel. Returns an empty polygon if p has
// fewer than 3 points, an area under 9 square pixels, or a non-positive
// perimeter.
func Dilate(p Polygon, ratio float64) Polygon {
	n := len(p.Points)
	if n < 3 {
		return Polygon{}
	}
	area := p.Area()
	perimeter := p.Perimeter()
	if area < minInterestingArea || perimeter <= 0 {
		return Polygon{}
	}
	d := area * ratio / perimeter

	ccw := p
	if signedAreaInt(p.Points) < 0 {
		ccw = reverse(p)
	}
	pts := ccw.Points

	var out []Point
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n].ToPointF()
		cur := pts[i].ToPointF()
		next := pts[(i+1)%n].ToPointF()

		nIn := outwardNormal(prev, cur, d)
		nOut := outwardNormal(cur, next, d)

		arcStart := cur.add(nIn)
		arcEnd := cur.add(nOut)
		out = append(out, roundToPoint(arcStart))
		out = append(out, arcBetween(cur, arcStart, arcEnd, d)...)
		out = append(out, roundToPoint(arcEnd))
	}
	return Polygon{Points: out}
}

// outwardNormal returns the offset vector of length d perpendicular to edge
// a->b, pointing away from the polygon interior (to the right of travel
// direction for a CCW polygon in standard math orientation).
func outwardNormal(a, b PointF, d float64) PointF {
	edge := b.sub(a)
	length := math.Hypot(edge.X, edge.Y)
	if length == 0 {
		return PointF{}
	}
	// Rotate the edge direction -90 degrees to point outward.
	return PointF{X: edge.Y / length * d, Y: -edge.X / length * d}.scale(1)
}

// arcBetween samples a quarter-circle-or-less round join centered at
// center, from start to end, at radius d, fine enough that consecutive
// samples are no more than one pixel apart.
func arcBetween(center, start, end PointF, d float64) []Point {
	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	a1 := math.Atan2(end.Y-center.Y, end.X-center.X)

	delta := a1 - a0
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}

	if d <= 0 {
		return nil
	}
	// Arc length for a 1-pixel chord at radius d is ~1/d radians; add a
	// safety factor and a floor so degenerate small radii still sample.
	maxStep := 1.0 / d
	steps := int(math.Ceil(math.Abs(delta)/maxStep)) + 1
	if steps < 1 {
		steps = 1
	}

	pts := make([]Point, 0, steps)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		ang := a0 + delta*t
		pts = append(pts, roundToPoint(PointF{
			X: center.X + d*math.Cos(ang),
			Y: center.Y + d*math.Sin(ang),
		}))
	}
	return pts
}

func roundToPoint(p PointF) Point {
	return Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

func signedAreaInt(pts []Point) float64 {
	n := len(pts)
	var sum float64
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		sum += float64(a.X)*float64(b.Y) - float64(b.X)*float64(a.Y)
	}
	return sum / 2
}

func reverse(p Polygon) Polygon {
	n := len(p.Points)
	out := make([]Point, n)
	for i, pt := range p.Points {
		out[n-1-i] = pt
	}
	return Polygon{Points: out}
}
