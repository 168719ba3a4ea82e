package encoding

import (
	"fmt"
	"image"
	"io"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// Compression effort bounds accepted by libwebp.
const (
	MinMethod = 0
	MaxMethod = 6
)

// WebP encodes lossy WebP images.
type WebP struct {
	// Method is the compression effort, 0 (fast) to 6 (smallest output).
	Method int
}

// NewWebP returns an encoder using the given compression method.
func NewWebP(method int) (*WebP, error) {
	if method < MinMethod || method > MaxMethod {
		return nil, fmt.Errorf("webp method must be between %d and %d, got %d", MinMethod, MaxMethod, method)
	}
	return &WebP{Method: method}, nil
}

// Extension implements thumbs.Encoder.
func (e *WebP) Extension() string {
	return ".webp"
}

// Encode writes img to w at the given quality (0-100).
func (e *WebP) Encode(w io.Writer, img image.Image, quality int) error {
	if quality < 0 || quality > 100 {
		return fmt.Errorf("webp quality must be between 0 and 100, got %d", quality)
	}
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return fmt.Errorf("webp options: %w", err)
	}
	opts.Method = e.Method
	if err := webp.Encode(w, img, opts); err != nil {
		return fmt.Errorf("webp encode: %w", err)
	}
	return nil
}
