// Package imaging wraps image decode, aspect-preserving resampling and the
// quality-ladder JPEG re-encode used by the intake pipeline.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	// Register the decoders the accepted-format policy relies on. GIF is
	// deliberately absent: animated sources are rejected before decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

// Bounds describes a decoded image's dimensions and detected format.
type Bounds struct {
	Width  int
	Height int
	Format string
}

// Probe reads just enough of data to report dimensions and format without a
// full pixel decode.
func Probe(data []byte) (Bounds, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Bounds{}, fmt.Errorf("probe image: %w", err)
	}
	return Bounds{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Decode decodes data into pixels, honoring EXIF orientation for JPEG
// sources so resampled output is never sideways.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodeJPEG encodes img at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg at quality %d: %w", quality, err)
	}
	return buf.Bytes(), nil
}
