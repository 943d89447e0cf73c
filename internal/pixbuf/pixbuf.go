// Package pixbuf is the thin image surface this core consumes: a
// pre-decoded pixel buffer with no encode/decode responsibility of its
// own.
package pixbuf

import "github.com/screenager/ocrcore/internal/ocrerr"

// Buffer is a row-major 8-bit RGB pixel buffer.
type Buffer struct {
	Width, Height int
	RGB           []byte // len == Width*Height*3
}

// New wraps rgb with its declared dimensions. Returns ocrerr.EmptyImage if
// either dimension is zero.
func New(rgb []byte, width, height int) (Buffer, error) {
	if width == 0 || height == 0 {
		return Buffer{}, ocrerr.EmptyImage
	}
	return Buffer{Width: width, Height: height, RGB: rgb}, nil
}

// At returns the RGB triple at (x, y).
func (b Buffer) At(x, y int) (r, g, bl byte) {
	i := (y*b.Width + x) * 3
	return b.RGB[i], b.RGB[i+1], b.RGB[i+2]
}

// Crop returns a new Buffer containing the sub-rectangle [x,y,w,h), copying
// pixel data. Coordinates are clamped to the source bounds.
func (b Buffer) Crop(x, y, w, h int) Buffer {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > b.Width {
		w = b.Width - x
	}
	if y+h > b.Height {
		h = b.Height - y
	}
	if w <= 0 || h <= 0 {
		return Buffer{}
	}
	out := make([]byte, w*h*3)
	for row := 0; row < h; row++ {
		srcOff := ((y+row)*b.Width + x) * 3
		dstOff := row * w * 3
		copy(out[dstOff:dstOff+w*3], b.RGB[srcOff:srcOff+w*3])
	}
	return Buffer{Width: w, Height: h, RGB: out}
}

// ResizePadRight resizes preserving aspect ratio to fit within maxW x maxH
// (nearest-neighbour), then pads the remainder on the right/bottom with
// black so the output is exactly maxW x maxH.
func (b Buffer) ResizePadRight(maxW, maxH int) Buffer {
	scale := minFloat(float64(maxW)/float64(b.Width), float64(maxH)/float64(b.Height))
	scaledW := int(float64(b.Width) * scale)
	scaledH := int(float64(b.Height) * scale)
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}

	out := make([]byte, maxW*maxH*3) // zero-valued => black padding
	for y := 0; y < scaledH; y++ {
		srcY := y * b.Height / scaledH
		for x := 0; x < scaledW; x++ {
			srcX := x * b.Width / scaledW
			r, g, bl := b.At(srcX, srcY)
			i := (y*maxW + x) * 3
			out[i], out[i+1], out[i+2] = r, g, bl
		}
	}
	return Buffer{Width: maxW, Height: maxH, RGB: out}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
