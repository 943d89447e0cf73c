package geometry

import (
	"encoding/json"
	"math"
)

// Polygon is an ordered sequence of points. A polygon returned by Hull is
// guaranteed strictly counter-clockwise, starting at the lexicographically
// smallest (y, x) vertex, with no three consecutive vertices collinear.
type Polygon struct {
	Points []Point
}

// MarshalJSON renders the polygon as a bare [{x,y},...] array rather than
// wrapping it in a Points field, matching the documented boundingBox.polygon
// wire schema.
func (p Polygon) MarshalJSON() ([]byte, error) {
	if p.Points == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.Points)
}

// UnmarshalJSON reads back a bare [{x,y},...] array.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.Points)
}

// Empty reports whether the polygon has no vertices.
func (p Polygon) Empty() bool { return len(p.Points) == 0 }

// Area returns the polygon's area via the shoelace formula. Treats the
// point sequence as a closed ring (last point implicitly connects to the
// first). Always non-negative regardless of vertex winding.
func (p Polygon) Area() float64 {
	n := len(p.Points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		sum += float64(a.X)*float64(b.Y) - float64(b.X)*float64(a.Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the sum of edge lengths, treating the sequence as a
// closed ring.
func (p Polygon) Perimeter() float64 {
	n := len(p.Points)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := p.Points[i].ToPointF()
		b := p.Points[(i+1)%n].ToPointF()
		sum += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return sum
}

// Scale multiplies every vertex coordinate by factor, rounding to the
// nearest integer. Used to map polygons from padded/model space back to
// original image space.
func (p Polygon) Scale(factor float64) Polygon {
	out := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		out[i] = Point{
			X: int(math.Round(float64(pt.X) * factor)),
			Y: int(math.Round(float64(pt.Y) * factor)),
		}
	}
	return Polygon{Points: out}
}

// BoundingAARectangle returns the smallest axis-aligned rectangle
// containing all vertices. Returns a zero-size rectangle for an empty
// polygon.
func (p Polygon) BoundingAARectangle() AARectangle {
	if len(p.Points) == 0 {
		return AARectangle{}
	}
	minX, minY := p.Points[0].X, p.Points[0].Y
	maxX, maxY := minX, minY
	for _, pt := range p.Points[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return AARectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
