package geometry

import "sort"

// Hull computes the strict convex hull of pts via a Graham scan. Returns an
// empty polygon for fewer than 3 distinct points. For collinear input,
// returns a single-point polygon at the lexicographic minimum by (y, x).
// The returned polygon is strictly counter-clockwise starting at that
// lexicographic minimum, with no three consecutive vertices collinear.
func Hull(pts []Point) Polygon {
	uniq := dedupe(pts)
	if len(uniq) < 3 {
		return Polygon{}
	}

	sort.Slice(uniq, func(i, j int) bool {
		if uniq[i].Y != uniq[j].Y {
			return uniq[i].Y < uniq[j].Y
		}
		return uniq[i].X < uniq[j].X
	})
	pivot := uniq[0]

	rest := uniq[1:]
	sort.Slice(rest, func(i, j int) bool {
		ca := cross(pivot, rest[i], rest[j])
		if ca != 0 {
			return ca > 0 // smaller polar angle first (CCW order around pivot)
		}
		// Same angle from pivot: nearer point first so the farther
		// duplicate-direction point survives as the last kept vertex.
		return sqDist(pivot, rest[i]) < sqDist(pivot, rest[j])
	})

	stack := []Point{pivot}
	for _, p := range rest {
		for len(stack) >= 2 && cross(stack[len(stack)-2], stack[len(stack)-1], p) <= 0 {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, p)
	}

	if len(stack) < 3 {
		// All input collinear with the pivot.
		return Polygon{Points: []Point{pivot}}
	}
	return Polygon{Points: stack}
}

func dedupe(pts []Point) []Point {
	seen := make(map[Point]bool, len(pts))
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// cross returns the z-component of (b-o) x (c-o). Positive means o->b->c
// turns counter-clockwise (in standard math orientation; image Y grows
// downward, but Hull is internally consistent as long as every comparison
// uses the same convention).
func cross(o, b, c Point) int {
	return (b.X-o.X)*(c.Y-o.Y) - (b.Y-o.Y)*(c.X-o.X)
}

func sqDist(a, b Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
