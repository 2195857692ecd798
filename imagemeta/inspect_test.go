package imagemeta

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestInspect_RecognizedFormats(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantFormat string
		wantW      int
		wantH      int
	}{
		{"png", makePNG(t, 320, 240), FormatPNG, 320, 240},
		{"jpeg", makeJPEG(t, 640, 480), FormatJPEG, 640, 480},
		{"gif", makeGIF(t, 100, 50), FormatGIF, 100, 50},
		{"webp", makeWebPVP8(160, 90), FormatWebP, 160, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := Inspect(tt.data)

			if meta.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", meta.Format, tt.wantFormat)
			}
			if meta.SizeBytes != len(tt.data) {
				t.Errorf("SizeBytes = %d, want %d", meta.SizeBytes, len(tt.data))
			}
			if meta.Width == nil || meta.Height == nil {
				t.Fatal("Width/Height are nil for a recognized image")
			}
			if *meta.Width != tt.wantW || *meta.Height != tt.wantH {
				t.Errorf("dims = %dx%d, want %dx%d", *meta.Width, *meta.Height, tt.wantW, tt.wantH)
			}
			if meta.Message == "" {
				t.Error("Message is empty")
			}
		})
	}
}

func TestInspect_NeverFails(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		wantMessage string
	}{
		{"empty", nil, "empty image data"},
		{"text", []byte("certainly not pixels"), "unrecognized image format"},
		{"zip archive", []byte{0x50, 0x4B, 0x03, 0x04, 0, 0, 0, 0}, "unrecognized image format"},
		{"truncated png", makePNG(t, 2, 2)[:8], "png signature with unreadable header"},
		{"truncated webp", makeWebPVP8(2, 2)[:14], "webp signature with unreadable header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := Inspect(tt.data)

			if meta.Format != FormatUnknown {
				t.Errorf("Format = %q, want %q", meta.Format, FormatUnknown)
			}
			if meta.Width != nil || meta.Height != nil {
				t.Error("Width/Height should be nil when detection fails")
			}
			if meta.SizeBytes != len(tt.data) {
				t.Errorf("SizeBytes = %d, want %d", meta.SizeBytes, len(tt.data))
			}
			if !strings.HasPrefix(meta.Message, tt.wantMessage) {
				t.Errorf("Message = %q, want prefix %q", meta.Message, tt.wantMessage)
			}
		})
	}
}

func TestInspect_JSONShape(t *testing.T) {
	t.Run("nulls for unknown data", func(t *testing.T) {
		raw, err := json.Marshal(Inspect([]byte("junk bytes here")))
		if err != nil {
			t.Fatalf("Marshal() returned error: %v", err)
		}
		s := string(raw)

		for _, want := range []string{`"size_bytes":15`, `"format":"unknown"`, `"width":null`, `"height":null`} {
			if !strings.Contains(s, want) {
				t.Errorf("JSON %s missing %s", s, want)
			}
		}
	})

	t.Run("dimensions for a real image", func(t *testing.T) {
		raw, err := json.Marshal(Inspect(makePNG(t, 320, 240)))
		if err != nil {
			t.Fatalf("Marshal() returned error: %v", err)
		}
		s := string(raw)

		for _, want := range []string{`"format":"png"`, `"width":320`, `"height":240`} {
			if !strings.Contains(s, want) {
				t.Errorf("JSON %s missing %s", s, want)
			}
		}
	})
}
