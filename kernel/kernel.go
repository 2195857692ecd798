// Package kernel is the boundary to the external image-processing library
// that realizes the convolution-style operations: grayscale, Gaussian blur,
// and resampling. The engine core owns only the contract at this boundary —
// input validation, the radius check, and opaque error propagation — never
// the convolution or luminance math itself.
// This file contains the capability interfaces injected into the
// transform dispatcher so the dispatch and validation logic can be tested
// against substitute implementations.
package kernel

// Engine is the delegated-convolution capability: grayscale conversion and
// Gaussian blur over flat RGBA buffers. Implementations must return a fresh
// buffer of exactly the input's byte length and must never mutate their
// input.
type Engine interface {
	// Grayscale converts the buffer to grayscale. Dimensions are unchanged.
	Grayscale(pixels []byte, width, height int) ([]byte, error)

	// Blur applies a Gaussian blur with the given radius. A radius <= 0 is
	// rejected with ErrInvalidRadius before the external library is invoked.
	Blur(pixels []byte, width, height int, radius float64) ([]byte, error)
}

// Resizer is the delegated-resampling capability. The returned buffer has
// targetWidth x targetHeight dimensions.
type Resizer interface {
	Resize(pixels []byte, width, height, targetWidth, targetHeight int) ([]byte, error)
}
