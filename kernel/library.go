// Package kernel is the boundary to the external image-processing library.
// This file contains the Library organism: the production Engine backed by
// github.com/disintegration/imaging. Buffers round-trip through image.NRGBA,
// which shares the flat non-premultiplied RGBA byte layout used by the
// transform engine.
package kernel

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"pixlab/filters"
)

// Library delegates grayscale, blur, and resampling to the imaging library.
// It is stateless and safe for concurrent use.
type Library struct{}

// NewLibrary creates the production delegate.
func NewLibrary() *Library {
	return &Library{}
}

// Grayscale converts a flat RGBA buffer to grayscale via the delegate
// library. The buffer is validated against (width, height) first; output
// byte length always equals input byte length.
func (l *Library) Grayscale(pixels []byte, width, height int) ([]byte, error) {
	if err := filters.ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}

	out := imaging.Grayscale(nrgbaFromBuffer(pixels, width, height))
	return flattenChecked(out, len(pixels), "grayscale")
}

// Blur applies a Gaussian blur with the given radius. The radius check runs
// before anything else — a non-positive radius never reaches the delegate.
func (l *Library) Blur(pixels []byte, width, height int, radius float64) ([]byte, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	if err := filters.ValidateBuffer(pixels, width, height); err != nil {
		return nil, err
	}

	out := imaging.Blur(nrgbaFromBuffer(pixels, width, height), radius)
	return flattenChecked(out, len(pixels), "blur")
}

// GrayscaleEncoded converts a self-describing encoded image (PNG, JPEG,
// GIF, TIFF, BMP — whatever the delegate can sniff) to grayscale and
// returns the result as a flat RGBA buffer plus its decoded dimensions.
// Undecodable data surfaces as a *DelegateError.
func (l *Library) GrayscaleEncoded(data []byte) ([]byte, int, int, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, &DelegateError{Op: "grayscale", Err: err}
	}

	out := imaging.Grayscale(img)
	return flattenNRGBA(out), out.Rect.Dx(), out.Rect.Dy(), nil
}

// BlurEncoded blurs a self-describing encoded image and returns a flat RGBA
// buffer plus its decoded dimensions. The radius check precedes decoding.
func (l *Library) BlurEncoded(data []byte, radius float64) ([]byte, int, int, error) {
	if radius <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, &DelegateError{Op: "blur", Err: err}
	}

	out := imaging.Blur(img, radius)
	return flattenNRGBA(out), out.Rect.Dx(), out.Rect.Dy(), nil
}

// nrgbaFromBuffer wraps a validated flat RGBA buffer in an image.NRGBA.
// The pixel bytes are copied so delegate-side mutation can never alias the
// caller's input.
func nrgbaFromBuffer(pixels []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img
}

// flattenNRGBA extracts the flat RGBA bytes from an NRGBA image, compacting
// any row padding the delegate may have introduced.
func flattenNRGBA(img *image.NRGBA) []byte {
	width := img.Rect.Dx()
	height := img.Rect.Dy()
	rowBytes := width * filters.BytesPerPixel

	out := make([]byte, rowBytes*height)
	if img.Stride == rowBytes {
		copy(out, img.Pix[:len(out)])
		return out
	}
	for y := 0; y < height; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], img.Pix[y*img.Stride:y*img.Stride+rowBytes])
	}
	return out
}

// flattenChecked enforces the round-trip contract: the delegate must hand
// back the same RGBA byte length it was given.
func flattenChecked(img *image.NRGBA, wantLen int, op string) ([]byte, error) {
	out := flattenNRGBA(img)
	if len(out) != wantLen {
		return nil, &DelegateError{
			Op:  op,
			Err: fmt.Errorf("delegate returned %d bytes, expected %d", len(out), wantLen),
		}
	}
	return out, nil
}
