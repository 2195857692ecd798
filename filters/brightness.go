// Package filters implements the PixLab pixel-buffer transform engine.
// This file contains the brightness molecule: an elementwise tonal
// adjustment with saturating clamps.
package filters

// Brightness adds adjustment to the R, G, and B channels of every pixel,
// clamping each result to [0, 255]; the alpha channel is copied unchanged.
// The adjustment itself is first clamped to [-255, 255] — out-of-range
// values are saturated, not rejected. The fractional part of an adjusted
// channel is truncated, not rounded.
//
// The map is elementwise with no cross-pixel dependency, so order of
// evaluation never matters.
// This is a pure function with no side effects.
func Brightness(pixels []byte, width, height int, adjustment float64) ([]byte, error) {
	if err := ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}

	adj := adjustment
	if adj > 255 {
		adj = 255
	} else if adj < -255 {
		adj = -255
	}

	out := make([]byte, len(pixels))
	for i := 0; i < len(pixels); i += BytesPerPixel {
		out[i] = clampChannel(float64(pixels[i]) + adj)
		out[i+1] = clampChannel(float64(pixels[i+1]) + adj)
		out[i+2] = clampChannel(float64(pixels[i+2]) + adj)
		out[i+3] = pixels[i+3]
	}
	return out, nil
}

// clampChannel saturates an adjusted channel value to the byte range.
// Conversion truncates toward zero.
func clampChannel(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}
