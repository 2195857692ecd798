// Package filters implements the PixLab pixel-buffer transform engine.
// This file contains the rotation molecules. The 90- and 270-degree cases
// swap the image dimensions, so their destination offsets are addressed
// against the swapped width (the original height) — the coordinate mapping
// here must be reproduced exactly, including for single-row and
// single-column images.
package filters

// Rotate90 rotates the image 90 degrees clockwise. The output has swapped
// dimensions (height, width): the input pixel at (x, y) lands at
// newX = y, newY = width-1-x, addressed against the new width (= input
// height). Callers must treat the returned buffer as height x width.
// This is a pure function with no side effects.
func Rotate90(pixels []byte, width, height int) ([]byte, error) {
	if err := ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}

	out := make([]byte, len(pixels))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * BytesPerPixel
			newX := y
			newY := width - 1 - x
			dst := (newY*height + newX) * BytesPerPixel
			copy(out[dst:dst+BytesPerPixel], pixels[src:src+BytesPerPixel])
		}
	}
	return out, nil
}

// Rotate180 rotates the image 180 degrees. Dimensions are unchanged: the
// input pixel at (x, y) lands at (width-1-x, height-1-y).
// This is a pure function with no side effects.
func Rotate180(pixels []byte, width, height int) ([]byte, error) {
	if err := ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}

	out := make([]byte, len(pixels))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * BytesPerPixel
			newX := width - 1 - x
			newY := height - 1 - y
			dst := (newY*width + newX) * BytesPerPixel
			copy(out[dst:dst+BytesPerPixel], pixels[src:src+BytesPerPixel])
		}
	}
	return out, nil
}

// Rotate270 rotates the image 270 degrees clockwise (equivalently 90
// degrees counter-clockwise). The output has swapped dimensions
// (height, width): the input pixel at (x, y) lands at newX = height-1-y,
// newY = x, addressed against the new width (= input height).
// This is a pure function with no side effects.
func Rotate270(pixels []byte, width, height int) ([]byte, error) {
	if err := ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}

	out := make([]byte, len(pixels))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * BytesPerPixel
			newX := height - 1 - y
			newY := x
			dst := (newY*height + newX) * BytesPerPixel
			copy(out[dst:dst+BytesPerPixel], pixels[src:src+BytesPerPixel])
		}
	}
	return out, nil
}
