// Package imagemeta inspects encoded image bytes and reports size, format,
// and pixel dimensions without performing a full decode.
// This file contains the metadata atoms: format constants and the report type.
package imagemeta

// Supported format identifiers as reported in Metadata.Format.
const (
	FormatPNG     = "png"
	FormatJPEG    = "jpeg"
	FormatGIF     = "gif"
	FormatWebP    = "webp"
	FormatUnknown = "unknown"
)

// Metadata describes an encoded image. Width and Height are nil when the
// format was not recognized or the header was too damaged to read, so they
// serialize as JSON null rather than a misleading zero.
// This is a pure data structure with no behavior.
type Metadata struct {
	// SizeBytes is the length of the submitted data
	SizeBytes int `json:"size_bytes"`

	// Format is one of the Format constants; "unknown" when detection failed
	Format string `json:"format"`

	// Width in pixels, nil when unreadable
	Width *int `json:"width"`

	// Height in pixels, nil when unreadable
	Height *int `json:"height"`

	// Message is a human-readable summary of the inspection outcome
	Message string `json:"message"`
}
