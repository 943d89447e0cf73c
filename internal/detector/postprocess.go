package detector

import (
	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/reliefmap"
	"github.com/screenager/ocrcore/internal/tensor"
)

const (
	binarizeThreshold  = 0.2
	openRadius         = 1
	minBoundaryPoints  = 10
)

// postprocess converts a model's [H, W] text-probability map into regions
// in original image-pixel coordinates.
func postprocess(out tensor.Tensor, prep prepared) ([]Region, error) {
	if len(out.Shape) != 2 {
		h, w := prep.paddedH, prep.paddedW
		out = tensor.New(out.Data, []int{h, w})
	}
	height, width := out.Shape[0], out.Shape[1]

	data := make([]float64, len(out.Data))
	for i, v := range out.Data {
		data[i] = float64(v)
	}

	rm, err := reliefmap.New(data, width, height)
	if err != nil {
		return nil, err
	}
	rm.Binarize(binarizeThreshold)
	rm.Open(openRadius)

	rawPolys, err := rm.TraceAllBoundaries()
	if err != nil {
		return nil, err
	}

	scaleFactor := 1.0
	if s := float64(prep.origW) / float64(prep.paddedW); s > scaleFactor {
		scaleFactor = s
	}
	if s := float64(prep.origH) / float64(prep.paddedH); s > scaleFactor {
		scaleFactor = s
	}

	var regions []Region
	for _, raw := range rawPolys {
		if len(raw.Points) < minBoundaryPoints {
			continue
		}
		hull := geometry.Hull(raw.Points)
		if hull.Empty() {
			continue
		}
		dilated := geometry.Dilate(hull, geometry.DefaultDilationRatio)
		if dilated.Empty() {
			continue
		}

		poly := dilated.Scale(scaleFactor)
		aaRect := poly.BoundingAARectangle()
		oRect := geometry.MinAreaRect(dilated).Scale(scaleFactor)

		regions = append(regions, Region{Polygon: poly, AARect: aaRect, ORect: oRect})
	}
	return regions, nil
}
