package geometry

import (
	"encoding/json"
	"math"
)

// AARectangle is an axis-aligned rectangle with non-negative dimensions.
type AARectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OrientedRectangle is a quadrilateral whose corners are ordered
// TL -> TR -> BR -> BL in the reading direction of the enclosed text.
// Corner 0 is the top-left of the text, not necessarily the geometric
// top-left of the quadrilateral's bounding box.
type OrientedRectangle struct {
	Corners [4]PointF
}

// MarshalJSON renders the rectangle as a bare [{x,y},...] array of its four
// corners rather than wrapping it in a Corners field, matching the
// documented boundingBox.orectangle wire schema.
func (r OrientedRectangle) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Corners[:])
}

// UnmarshalJSON reads back a bare [{x,y},...] array of four corners.
func (r *OrientedRectangle) UnmarshalJSON(data []byte) error {
	var pts []PointF
	if err := json.Unmarshal(data, &pts); err != nil {
		return err
	}
	copy(r.Corners[:], pts)
	return nil
}

// FromMinAreaQuad builds an OrientedRectangle from four corners in
// arbitrary order (any cyclic or reversed permutation), normalizing them
// into the TL->TR->BR->BL reading-order convention. The algorithm
// identifies top-left as the corner with smallest (x+y), then walks
// clockwise from there.
func FromMinAreaQuad(corners [4]PointF) OrientedRectangle {
	tlIdx := 0
	best := corners[0].X + corners[0].Y
	for i := 1; i < 4; i++ {
		s := corners[i].X + corners[i].Y
		if s < best {
			best = s
			tlIdx = i
		}
	}

	// Determine whether the input order is clockwise or counter-clockwise
	// using the signed area of the quad, then walk from tlIdx in the
	// clockwise direction regardless of input winding.
	signedArea := quadSignedArea(corners)
	step := 1
	if signedArea < 0 {
		// Positive signed area (shoelace, standard math orientation) means
		// the input order is already clockwise in image coordinates
		// (Y-down); negative means counter-clockwise, so walking -1 gives
		// clockwise traversal.
		step = -1
	}

	var ordered [4]PointF
	idx := tlIdx
	for i := 0; i < 4; i++ {
		ordered[i] = corners[((idx%4)+4)%4]
		idx += step
	}
	return OrientedRectangle{Corners: ordered}
}

func quadSignedArea(c [4]PointF) float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		a := c[i]
		b := c[(i+1)%4]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Width returns the logical width of the enclosed text: the mean of the
// TL-TR and BL-BR edge lengths.
func (r OrientedRectangle) Width() float64 {
	top := dist(r.Corners[0], r.Corners[1])
	bottom := dist(r.Corners[3], r.Corners[2])
	return (top + bottom) / 2
}

// Height returns the logical height of the enclosed text: the mean of the
// TL-BL and TR-BR edge lengths.
func (r OrientedRectangle) Height() float64 {
	left := dist(r.Corners[0], r.Corners[3])
	right := dist(r.Corners[1], r.Corners[2])
	return (left + right) / 2
}

func dist(a, b PointF) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Scale multiplies every corner by factor (maps model/padded space back to
// original image space).
func (r OrientedRectangle) Scale(factor float64) OrientedRectangle {
	var out OrientedRectangle
	for i, c := range r.Corners {
		out.Corners[i] = PointF{X: c.X * factor, Y: c.Y * factor}
	}
	return out
}

// ToPolygon returns the rectangle's corners as an integer Polygon, rounding
// each coordinate to the nearest pixel.
func (r OrientedRectangle) ToPolygon() Polygon {
	pts := make([]Point, 4)
	for i, c := range r.Corners {
		pts[i] = Point{X: int(math.Round(c.X)), Y: int(math.Round(c.Y))}
	}
	return Polygon{Points: pts}
}

// MinAreaRect computes the minimum-area oriented rectangle enclosing a
// convex polygon using rotating calipers over each hull edge direction.
func MinAreaRect(hull Polygon) OrientedRectangle {
	n := len(hull.Points)
	if n == 0 {
		return OrientedRectangle{}
	}
	if n < 3 {
		// Degenerate: treat as a zero-area rectangle at the single point.
		p := hull.Points[0].ToPointF()
		return OrientedRectangle{Corners: [4]PointF{p, p, p, p}}
	}

	bestArea := math.MaxFloat64
	var best [4]PointF

	for i := 0; i < n; i++ {
		a := hull.Points[i].ToPointF()
		b := hull.Points[(i+1)%n].ToPointF()
		edge := b.sub(a)
		length := math.Hypot(edge.X, edge.Y)
		if length == 0 {
			continue
		}
		ux, uy := edge.X/length, edge.Y/length // unit axis along the edge
		vx, vy := -uy, ux                      // perpendicular unit axis

		minU, maxU := math.MaxFloat64, -math.MaxFloat64
		minV, maxV := math.MaxFloat64, -math.MaxFloat64
		for _, hp := range hull.Points {
			p := hp.ToPointF().sub(a)
			u := p.X*ux + p.Y*uy
			v := p.X*vx + p.Y*vy
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			corner := func(u, v float64) PointF {
				return PointF{X: a.X + u*ux + v*vx, Y: a.Y + u*uy + v*vy}
			}
			// Corners in the (u,v) local frame, order depends on sign of
			// the axes but always traces the rectangle consistently.
			best = [4]PointF{
				corner(minU, minV),
				corner(maxU, minV),
				corner(maxU, maxV),
				corner(minU, maxV),
			}
		}
	}

	return FromMinAreaQuad(best)
}
