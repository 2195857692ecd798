// Package filters implements the PixLab pixel-buffer transform engine.
// This file contains the flip molecules for horizontal and vertical
// mirroring.
package filters

// FlipHorizontal mirrors the image across its vertical axis: the output
// pixel at (x, y) is the input pixel at (width-1-x, y). Dimensions are
// unchanged. A fresh buffer is always returned; the input is never mutated.
//
// Example:
//
//	out, err := filters.FlipHorizontal(pixels, 640, 480)
//
// This is a pure function with no side effects.
func FlipHorizontal(pixels []byte, width, height int) ([]byte, error) {
	if err := ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}

	out := make([]byte, len(pixels))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * BytesPerPixel
			dst := (y*width + (width - 1 - x)) * BytesPerPixel
			copy(out[dst:dst+BytesPerPixel], pixels[src:src+BytesPerPixel])
		}
	}
	return out, nil
}

// FlipVertical mirrors the image across its horizontal axis: the output
// pixel at (x, y) is the input pixel at (x, height-1-y). Dimensions are
// unchanged. A fresh buffer is always returned; the input is never mutated.
// This is a pure function with no side effects.
func FlipVertical(pixels []byte, width, height int) ([]byte, error) {
	if err := ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}

	out := make([]byte, len(pixels))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * BytesPerPixel
			dst := ((height-1-y)*width + x) * BytesPerPixel
			copy(out[dst:dst+BytesPerPixel], pixels[src:src+BytesPerPixel])
		}
	}
	return out, nil
}
