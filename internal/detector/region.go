// Package detector implements text-region detection: pre-processing
// (resize+pad+normalize) -> inference -> post-processing (relief map ->
// polygons -> boxes).
package detector

import "github.com/screenager/ocrcore/internal/geometry"

// Region is a detected text region at three fidelity levels, all
// expressed in original image-pixel coordinates.
type Region struct {
	Polygon  geometry.Polygon
	AARect   geometry.AARectangle
	ORect    geometry.OrientedRectangle
}
