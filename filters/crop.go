// Package filters implements the PixLab pixel-buffer transform engine.
// This file contains the crop molecule: a row-by-row copy of a validated
// sub-rectangle.
package filters

// Crop extracts the rectangle rect from a width x height image and returns
// it as a fresh rect.Width x rect.Height buffer. Both the length check and
// the rectangle checks from ValidateCropRect run before any allocation, so
// a failed crop never produces a partial output.
//
// Rows are copied whole: output row r takes rect.Width pixels starting at
// input offset ((rect.Y+r)*width + rect.X) * 4.
//
// Example:
//
//	sub, err := filters.Crop(pixels, 1920, 1080, filters.Rect{X: 100, Y: 50, Width: 640, Height: 480})
//
// This is a pure function with no side effects.
func Crop(pixels []byte, width, height int, rect Rect) ([]byte, error) {
	if err := ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}
	if err := ValidateCropRect(rect, width, height); err != nil {
		return nil, err
	}

	rowBytes := rect.Width * BytesPerPixel
	out := make([]byte, rect.Height*rowBytes)
	for r := 0; r < rect.Height; r++ {
		src := ((rect.Y+r)*width + rect.X) * BytesPerPixel
		dst := r * rowBytes
		copy(out[dst:dst+rowBytes], pixels[src:src+rowBytes])
	}
	return out, nil
}
