package recognizer

import (
	"math"

	"github.com/screenager/ocrcore/internal/geometry"
	"github.com/screenager/ocrcore/internal/pixbuf"
	"github.com/screenager/ocrcore/internal/tensor"
)

const (
	// TargetWidth and TargetHeight are the fixed recognizer input size.
	// They are constants; no configuration field overrides them.
	TargetWidth  = 160
	TargetHeight = 48
)

var means = 127.5
var std = 127.5

// warpCrop samples img through the affine frame defined by the oriented
// rectangle's TL/TR/BL corners (origin + two basis vectors), producing an
// upright buffer whose contents read left-to-right, top-to-bottom
// regardless of the source rectangle's rotation.
func warpCrop(img pixbuf.Buffer, r geometry.OrientedRectangle) pixbuf.Buffer {
	w := int(math.Round(r.Width()))
	h := int(math.Round(r.Height()))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	tl, tr, bl := r.Corners[0], r.Corners[1], r.Corners[3]
	uAxis := geometry.PointF{X: (tr.X - tl.X) / float64(w), Y: (tr.Y - tl.Y) / float64(w)}
	vAxis := geometry.PointF{X: (bl.X - tl.X) / float64(h), Y: (bl.Y - tl.Y) / float64(h)}

	out := make([]byte, w*h*3)
	for oy := 0; oy < h; oy++ {
		for ox := 0; ox < w; ox++ {
			sx := tl.X + uAxis.X*float64(ox) + vAxis.X*float64(oy)
			sy := tl.Y + uAxis.Y*float64(ox) + vAxis.Y*float64(oy)
			ix, iy := int(math.Round(sx)), int(math.Round(sy))
			di := (oy*w + ox) * 3
			if ix < 0 || ix >= img.Width || iy < 0 || iy >= img.Height {
				continue // leaves black, matching the pipeline's right-pad convention
			}
			r8, g8, b8 := img.At(ix, iy)
			out[di], out[di+1], out[di+2] = r8, g8, b8
		}
	}
	return pixbuf.Buffer{Width: w, Height: h, RGB: out}
}

// preprocess crops region from img, resizes it to TargetWidth x
// TargetHeight with aspect-preserving fit and right-padding, then
// channels-first normalizes. Returns ok=false for a zero-area region.
func preprocess(img pixbuf.Buffer, region geometry.OrientedRectangle) (tensor.Tensor, bool) {
	if region.Width() < 1 || region.Height() < 1 {
		return tensor.Tensor{}, false
	}

	crop := warpCrop(img, region)
	if crop.Width == 0 || crop.Height == 0 {
		return tensor.Tensor{}, false
	}

	resized := crop.ResizePadRight(TargetWidth, TargetHeight)

	data := make([]float32, 3*TargetHeight*TargetWidth)
	plane := TargetHeight * TargetWidth
	for y := 0; y < TargetHeight; y++ {
		for x := 0; x < TargetWidth; x++ {
			r8, g8, b8 := resized.At(x, y)
			px := [3]float64{float64(r8), float64(g8), float64(b8)}
			for c := 0; c < 3; c++ {
				data[c*plane+y*TargetWidth+x] = float32((px[c] - means) / std)
			}
		}
	}
	return tensor.New(data, []int{3, TargetHeight, TargetWidth}), true
}
