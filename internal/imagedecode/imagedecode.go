// Package imagedecode is the CLI's concrete watch.Decoder: turning a file
// on disk into a pixbuf.Buffer, so cmd/ocrctl has something to hand the
// pipeline. Built on the standard image/jpeg and image/png packages.
package imagedecode

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/screenager/ocrcore/internal/pixbuf"
)

// Decoder decodes files from local disk.
type Decoder struct{}

// DecodeFile satisfies watch.Decoder.
func (Decoder) DecodeFile(path string) (pixbuf.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("imagedecode: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("imagedecode: decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rgb := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			rgb[i] = byte(r >> 8)
			rgb[i+1] = byte(g >> 8)
			rgb[i+2] = byte(b >> 8)
		}
	}
	return pixbuf.New(rgb, w, h)
}
