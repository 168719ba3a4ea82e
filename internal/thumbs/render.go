package thumbs

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Encoder writes a rendered thumbnail in the output format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int) error
	// Extension returns the output file extension including the dot.
	Extension() string
}

// TargetSize returns the thumbnail size for a w x h source scaled to width.
// The height keeps the aspect ratio, rounded to the nearest pixel, and is at
// least one pixel. Narrow sources are upscaled.
func TargetSize(w, h, width int) (int, int) {
	if w <= 0 || h <= 0 || width <= 0 {
		return 0, 0
	}
	height := int(math.Round(float64(h) * float64(width) / float64(w)))
	if height < 1 {
		height = 1
	}
	return width, height
}

// Flatten drops transparency. Images with an alpha channel or a palette are
// converted to opaque NRGBA by forcing every alpha value to full; colours are
// kept as stored, nothing is composited onto a background.
func Flatten(img image.Image) image.Image {
	if _, paletted := img.(*image.Paletted); !paletted {
		if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
			return img
		}
	}
	flat := imaging.Clone(img)
	for i := 3; i < len(flat.Pix); i += 4 {
		flat.Pix[i] = 0xff
	}
	return flat
}

// Render decodes the image at path and returns its flattened thumbnail at the
// given width, resampled with a Lanczos filter.
func Render(path string, width int) (image.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Thumbnail(src, width)
}

// Thumbnail flattens and resizes an already decoded image.
func Thumbnail(src image.Image, width int) (image.Image, error) {
	bounds := src.Bounds()
	w, h := TargetSize(bounds.Dx(), bounds.Dy(), width)
	if w == 0 {
		return nil, errors.New("image has no pixels")
	}
	return imaging.Resize(Flatten(src), w, h, imaging.Lanczos), nil
}
