// Package imagemeta inspects encoded image bytes without a full decode.
// This file contains the header-sniffing molecules: signature detection and
// per-format dimension parsing straight from the header bytes.
package imagemeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// DetectFormat returns the format implied by the leading signature bytes, or
// FormatUnknown when no known signature matches. Detection looks only at the
// magic numbers; a matching signature does not guarantee a readable header.
// This is a pure function with no side effects.
func DetectFormat(data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], pngSignature):
		return FormatPNG
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return FormatJPEG
	case len(data) >= 6 && string(data[:3]) == "GIF" &&
		(string(data[3:6]) == "87a" || string(data[3:6]) == "89a"):
		return FormatGIF
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	default:
		return FormatUnknown
	}
}

// dimensions extracts width and height from the header bytes of a detected
// format. Truncated or malformed headers return an error describing what was
// missing.
func dimensions(format string, data []byte) (width, height int, err error) {
	switch format {
	case FormatPNG:
		return parsePNG(data)
	case FormatJPEG:
		return parseJPEG(data)
	case FormatGIF:
		return parseGIF(data)
	case FormatWebP:
		return parseWebP(data)
	default:
		return 0, 0, fmt.Errorf("no dimension parser for format %q", format)
	}
}

// parsePNG reads the IHDR chunk: width at bytes 16-19, height at 20-23, both
// big-endian uint32.
func parsePNG(data []byte) (int, int, error) {
	if len(data) < 24 {
		return 0, 0, errors.New("header too short for IHDR chunk")
	}
	w := int(binary.BigEndian.Uint32(data[16:20]))
	h := int(binary.BigEndian.Uint32(data[20:24]))
	return w, h, nil
}

// parseJPEG walks the marker segments looking for a start-of-frame, which
// carries height at offset 5 and width at offset 7 within the segment.
func parseJPEG(data []byte) (int, int, error) {
	i := 2
	for i+3 < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xFF {
			// Fill byte before a marker
			i++
			continue
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD9) {
			// Standalone markers carry no length field
			i += 2
			continue
		}

		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 {
			return 0, 0, errors.New("invalid JPEG segment length")
		}
		if isSOFMarker(marker) {
			if i+9 > len(data) {
				return 0, 0, errors.New("JPEG start-of-frame truncated")
			}
			h := int(binary.BigEndian.Uint16(data[i+5 : i+7]))
			w := int(binary.BigEndian.Uint16(data[i+7 : i+9]))
			return w, h, nil
		}
		i += 2 + segLen
	}
	return 0, 0, errors.New("JPEG start-of-frame marker not found")
}

// isSOFMarker reports whether marker is a start-of-frame (0xC0-0xCF excluding
// DHT, JPG, and DAC).
func isSOFMarker(marker byte) bool {
	return marker&0xF0 == 0xC0 && marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

// parseGIF reads the logical screen descriptor: width at bytes 6-7, height at
// 8-9, both little-endian uint16.
func parseGIF(data []byte) (int, int, error) {
	if len(data) < 10 {
		return 0, 0, errors.New("header too short for logical screen descriptor")
	}
	w := int(binary.LittleEndian.Uint16(data[6:8]))
	h := int(binary.LittleEndian.Uint16(data[8:10]))
	return w, h, nil
}

// parseWebP handles the three RIFF chunk layouts: VP8 (lossy), VP8L
// (lossless), and VP8X (extended canvas).
func parseWebP(data []byte) (int, int, error) {
	if len(data) < 16 {
		return 0, 0, errors.New("header too short for RIFF chunk type")
	}

	switch chunk := string(data[12:16]); chunk {
	case "VP8 ":
		if len(data) < 30 {
			return 0, 0, errors.New("VP8 frame header truncated")
		}
		if data[23] != 0x9D || data[24] != 0x01 || data[25] != 0x2A {
			return 0, 0, errors.New("VP8 start code missing")
		}
		w := int(binary.LittleEndian.Uint16(data[26:28])) & 0x3FFF
		h := int(binary.LittleEndian.Uint16(data[28:30])) & 0x3FFF
		return w, h, nil

	case "VP8L":
		if len(data) < 25 {
			return 0, 0, errors.New("VP8L stream header truncated")
		}
		if data[20] != 0x2F {
			return 0, 0, errors.New("VP8L signature byte missing")
		}
		// 14 bits of width-1 then 14 bits of height-1, packed little-endian
		bits := binary.LittleEndian.Uint32(data[21:25])
		w := int(bits&0x3FFF) + 1
		h := int((bits>>14)&0x3FFF) + 1
		return w, h, nil

	case "VP8X":
		if len(data) < 30 {
			return 0, 0, errors.New("VP8X canvas header truncated")
		}
		// Canvas size as 24-bit little-endian minus one, at bytes 24 and 27
		w := (int(data[24]) | int(data[25])<<8 | int(data[26])<<16) + 1
		h := (int(data[27]) | int(data[28])<<8 | int(data[29])<<16) + 1
		return w, h, nil

	default:
		return 0, 0, fmt.Errorf("unsupported WebP chunk %q", chunk)
	}
}
