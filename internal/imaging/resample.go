package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ScaleFactor returns the uniform factor applied to both axes so that
// neither dimension exceeds its maximum: min(1, maxW/w, maxH/h). A factor of
// 1 means the image already fits and is never upscaled.
func ScaleFactor(width, height, maxWidth, maxHeight int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	scale := 1.0
	if w := float64(maxWidth) / float64(width); w < scale {
		scale = w
	}
	if h := float64(maxHeight) / float64(height); h < scale {
		scale = h
	}
	return scale
}

// FitDimensions returns the post-resample dimensions for a source of the
// given size.
func FitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	scale := ScaleFactor(width, height, maxWidth, maxHeight)
	if scale >= 1 {
		return width, height
	}
	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Resample scales img down so it fits within maxWidth by maxHeight,
// preserving aspect ratio. Images already inside the bounds pass through
// untouched.
func Resample(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	if ScaleFactor(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight) >= 1 {
		return img
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}
