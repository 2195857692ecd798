// Package kernel is the boundary to the external image-processing library.
// This file contains the resize molecule: Catmull-Rom resampling via
// golang.org/x/image/draw.
package kernel

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"pixlab/filters"
)

// Resize resamples a flat RGBA buffer to targetWidth x targetHeight using
// Catmull-Rom interpolation. Target dimensions must be positive and the
// source must be non-empty; the source buffer is validated against
// (width, height) before any sampling.
func (l *Library) Resize(pixels []byte, width, height, targetWidth, targetHeight int) ([]byte, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, targetWidth, targetHeight)
	}
	if err := filters.ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: source image is empty", ErrInvalidDimensions)
	}

	src := nrgbaFromBuffer(pixels, width, height)
	dst := image.NewNRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)

	return flattenNRGBA(dst), nil
}
