// Package imagemeta inspects encoded image bytes without a full decode.
// This file contains the Inspect organism that composes signature detection
// and dimension parsing into a single report.
package imagemeta

import "fmt"

// Inspect examines encoded image data and returns a Metadata report. It never
// fails: unrecognized signatures and truncated headers yield Format
// "unknown" with nil dimensions and a message explaining what went wrong, so
// callers can always serialize the result as a successful response.
// This is a pure function with no side effects.
func Inspect(data []byte) Metadata {
	meta := Metadata{
		SizeBytes: len(data),
		Format:    FormatUnknown,
	}

	if len(data) == 0 {
		meta.Message = "empty image data"
		return meta
	}

	format := DetectFormat(data)
	if format == FormatUnknown {
		meta.Message = "unrecognized image format"
		return meta
	}

	width, height, err := dimensions(format, data)
	if err != nil {
		meta.Message = fmt.Sprintf("%s signature with unreadable header: %v", format, err)
		return meta
	}

	meta.Format = format
	meta.Width = &width
	meta.Height = &height
	meta.Message = fmt.Sprintf("%s image, %dx%d pixels", format, width, height)
	return meta
}
