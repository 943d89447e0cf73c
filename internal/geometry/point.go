// Package geometry implements the points, polygons, rectangles, convex
// hull, and polygon dilation used by detection post-processing.
package geometry

// Point is an integer image-space coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointF is a floating image-space coordinate.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p PointF) add(o PointF) PointF { return PointF{p.X + o.X, p.Y + o.Y} }
func (p PointF) sub(o PointF) PointF { return PointF{p.X - o.X, p.Y - o.Y} }
func (p PointF) scale(s float64) PointF { return PointF{p.X * s, p.Y * s} }

// ToPointF converts a Point to floating coordinates.
func (p Point) ToPointF() PointF { return PointF{float64(p.X), float64(p.Y)} }
