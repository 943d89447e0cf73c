// Package reliefmap implements the 2-D text-probability grid produced by
// the detection network and its post-processing operators: binarize, open,
// flood-fill, and boundary trace.
package reliefmap

import (
	"fmt"

	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/ocrerr"
)

// visited is the sentinel marking a cell already consumed by a flood fill.
// Must never appear on construction.
const visited = -1

// ReliefMap is a rectangular W x H float grid mutated in place by
// Binarize -> Open -> FloodFill; TraceAllBoundaries is single-use.
type ReliefMap struct {
	data   []float64
	w, h   int
	traced bool
}

// New builds a relief map over data, which must have exactly width*height
// elements; both dimensions must be positive.
func New(data []float64, width, height int) (*ReliefMap, error) {
	if width <= 0 || height <= 0 || len(data) != width*height {
		return nil, fmt.Errorf("reliefmap: %dx%d grid needs %d cells, got %d: %w", width, height, width*height, len(data), ocrerr.BadDimensions)
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return &ReliefMap{data: cp, w: width, h: height}, nil
}

func (r *ReliefMap) at(x, y int) float64 { return r.data[y*r.w+x] }
func (r *ReliefMap) set(x, y int, v float64) { r.data[y*r.w+x] = v }
func (r *ReliefMap) in(x, y int) bool { return x >= 0 && x < r.w && y >= 0 && y < r.h }

// Width returns the grid width.
func (r *ReliefMap) Width() int { return r.w }

// Height returns the grid height.
func (r *ReliefMap) Height() int { return r.h }

// Binarize sets every cell <= threshold to 0 and every cell > threshold to 1.
func (r *ReliefMap) Binarize(threshold float64) {
	for i, v := range r.data {
		if v > threshold {
			r.data[i] = 1
		} else {
			r.data[i] = 0
		}
	}
}

// Open performs morphological opening (erosion then dilation) with a square
// structuring element of the given radius, removing single-pixel noise.
func (r *ReliefMap) Open(radius int) {
	eroded := r.morph(radius, true)
	dilated := morphOn(eroded, r.w, r.h, radius, false)
	r.data = dilated
}

// morph applies a single erosion or dilation pass (erode=false means
// dilate) over r's current data and returns the resulting grid.
func (r *ReliefMap) morph(radius int, erode bool) []float64 {
	return morphOn(r.data, r.w, r.h, radius, erode)
}

func morphOn(data []float64, w, h, radius int, erode bool) []float64 {
	out := make([]float64, len(data))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var result float64
			if erode {
				result = 1
			} else {
				result = 0
			}
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					var v float64
					if nx >= 0 && nx < w && ny >= 0 && ny < h {
						v = data[ny*w+nx]
					}
					if erode {
						if v < result {
							result = v
						}
					} else {
						if v > result {
							result = v
						}
					}
				}
			}
			out[y*w+x] = result
		}
	}
	return out
}

// FloodFill marks every cell reachable from seed along cells currently
// equal to 1 with the sentinel -1, using a 4-connected scanline fill.
// Returns silently if the seed cell is <= 0.
func (r *ReliefMap) FloodFill(seed geometry.Point) {
	if !r.in(seed.X, seed.Y) || r.at(seed.X, seed.Y) <= 0 {
		return
	}
	stack := []geometry.Point{seed}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !r.in(p.X, p.Y) || r.at(p.X, p.Y) != 1 {
			continue
		}
		// Scanline: fill the full horizontal run, then seed the rows above
		// and below at each newly filled column.
		left := p.X
		for left-1 >= 0 && r.at(left-1, p.Y) == 1 {
			left--
		}
		right := p.X
		for right+1 < r.w && r.at(right+1, p.Y) == 1 {
			right++
		}
		for x := left; x <= right; x++ {
			r.set(x, p.Y, visited)
			if p.Y-1 >= 0 && r.at(x, p.Y-1) == 1 {
				stack = append(stack, geometry.Point{X: x, Y: p.Y - 1})
			}
			if p.Y+1 < r.h && r.at(x, p.Y+1) == 1 {
				stack = append(stack, geometry.Point{X: x, Y: p.Y + 1})
			}
		}
	}
}

// dx8/dy8 are the 8-connected neighbour offsets in clockwise order starting
// from the neighbour directly above, used by the boundary tracer.
var dx8 = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
var dy8 = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}

// TraceAllBoundaries scans cells in row-major order; for every cell equal
// to 1, traces its 8-connected boundary, emits a polygon, then flood-fills
// the interior so subsequent scans do not retrace it. Single-use: a second
// call fails with AlreadyTraced.
func (r *ReliefMap) TraceAllBoundaries() ([]geometry.Polygon, error) {
	if r.traced {
		return nil, ocrerr.AlreadyTraced
	}
	r.traced = true

	var polys []geometry.Polygon
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			if r.at(x, y) != 1 {
				continue
			}
			poly := r.traceBoundary(geometry.Point{X: x, Y: y})
			if !poly.Empty() {
				polys = append(polys, poly)
			}
			r.FloodFill(geometry.Point{X: x, Y: y})
		}
	}
	return polys, nil
}

// traceBoundary walks the 8-connected contour of the connected component
// containing start using Moore boundary tracing, starting the neighbour
// search from the direction the tracer most recently arrived from.
func (r *ReliefMap) traceBoundary(start geometry.Point) geometry.Polygon {
	cur := start
	// backtrack: the direction index to resume neighbour search from,
	// initialized to 5 (the south-west neighbour) for the very first step,
	// so the first search covers south-west and west before the row above.
	backtrack := 5

	var pts []geometry.Point
	seen := map[geometry.Point]bool{}

	for {
		if !seen[cur] {
			pts = append(pts, cur)
			seen[cur] = true
		}

		next, dir, found := r.nextBoundaryCell(cur, backtrack)
		if !found {
			break
		}
		// Resume the next search from the neighbour just behind the one
		// that succeeded, per Moore-tracing convention.
		backtrack = (dir + 5) % 8
		cur = next

		if cur == start {
			break
		}
		if len(pts) > r.w*r.h {
			break // safety valve against pathological grids
		}
	}

	if len(pts) < 2 {
		return geometry.Polygon{}
	}
	return geometry.Polygon{Points: pts}
}

// nextBoundaryCell searches the 8 neighbours of cur in clockwise order
// starting at fromDir for the first cell equal to 1.
func (r *ReliefMap) nextBoundaryCell(cur geometry.Point, fromDir int) (geometry.Point, int, bool) {
	for i := 0; i < 8; i++ {
		dir := (fromDir + i) % 8
		nx, ny := cur.X+dx8[dir], cur.Y+dy8[dir]
		if r.in(nx, ny) && r.at(nx, ny) == 1 {
			return geometry.Point{X: nx, Y: ny}, dir, true
		}
	}
	return geometry.Point{}, 0, false
}
