package detector

import (
	"github.com/screenager/ocrcore/internal/ocrerr"
	"github.com/screenager/ocrcore/internal/pixbuf"
	"github.com/screenager/ocrcore/internal/tensor"
)

const (
	maxWidth  = 1333
	maxHeight = 736
	divisor   = 32
)

var means = [3]float64{123.675, 116.28, 103.53}
var stds = [3]float64{58.395, 57.12, 57.375}

// prepared holds a preprocessed input tensor alongside the bookkeeping
// postprocess needs to map model-space coordinates back to the source
// image.
type prepared struct {
	t         tensor.Tensor
	paddedW   int
	paddedH   int
	origW     int
	origH     int
}

// preprocess resizes img preserving aspect ratio to fit within (1333, 736),
// pads right/bottom with black up to the next multiple of 32, converts to
// channels-first, and per-channel normalizes.
func preprocess(img pixbuf.Buffer) (prepared, error) {
	if img.Width == 0 || img.Height == 0 {
		return prepared{}, ocrerr.EmptyImage
	}

	scale := 1.0
	if s := float64(maxWidth) / float64(img.Width); s < scale {
		scale = s
	}
	if s := float64(maxHeight) / float64(img.Height); s < scale {
		scale = s
	}
	scaledW := roundPositive(float64(img.Width) * scale)
	scaledH := roundPositive(float64(img.Height) * scale)

	paddedW := ceilToMultiple(scaledW, divisor)
	paddedH := ceilToMultiple(scaledH, divisor)

	resized := img.ResizePadRight(scaledW, scaledH) // fills exactly scaledW x scaledH, no slack
	canvas := make([]byte, paddedW*paddedH*3)       // zero => black padding
	for y := 0; y < scaledH; y++ {
		srcOff := y * scaledW * 3
		dstOff := y * paddedW * 3
		copy(canvas[dstOff:dstOff+scaledW*3], resized.RGB[srcOff:srcOff+scaledW*3])
	}

	data := make([]float32, 3*paddedH*paddedW)
	plane := paddedH * paddedW
	for y := 0; y < paddedH; y++ {
		for x := 0; x < paddedW; x++ {
			i := (y*paddedW + x) * 3
			r, g, b := canvas[i], canvas[i+1], canvas[i+2]
			pix := [3]float64{float64(r), float64(g), float64(b)}
			for c := 0; c < 3; c++ {
				data[c*plane+y*paddedW+x] = float32((pix[c] - means[c]) / stds[c])
			}
		}
	}

	return prepared{
		t:       tensor.New(data, []int{3, paddedH, paddedW}),
		paddedW: paddedW,
		paddedH: paddedH,
		origW:   img.Width,
		origH:   img.Height,
	}, nil
}

func roundPositive(v float64) int {
	n := int(v + 0.5)
	if n < 1 {
		return 1
	}
	return n
}

func ceilToMultiple(v, m int) int {
	if v%m == 0 {
		return v
	}
	return (v/m + 1) * m
}
