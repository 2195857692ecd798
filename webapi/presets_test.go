package webapi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pixlab/transform"
)

const samplePresetsYAML = `
presets:
  web_thumbnail:
    - op: resize
      params:
        target_width: 320
        target_height: 240
    - op: brightness
      params:
        adjustment: 10
  archive:
    - op: grayscale
    - op: crop
      params:
        rect:
          x: 1
          y: 2
          width: 3
          height: 4
`

func TestLoadPresets(t *testing.T) {
	t.Run("missing file yields empty library", func(t *testing.T) {
		lib, err := LoadPresets(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadPresets() error = %v, want nil for missing file", err)
		}
		if lib.Len() != 0 {
			t.Errorf("Len() = %d, want 0", lib.Len())
		}
	})

	t.Run("loads presets from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.yaml")
		if err := os.WriteFile(path, []byte(samplePresetsYAML), 0o644); err != nil {
			t.Fatalf("write presets file: %v", err)
		}

		lib, err := LoadPresets(path)
		if err != nil {
			t.Fatalf("LoadPresets() error = %v", err)
		}
		if lib.Len() != 2 {
			t.Errorf("Len() = %d, want 2", lib.Len())
		}
	})

	t.Run("unreadable file reports the path context", func(t *testing.T) {
		dir := t.TempDir()
		// A directory where a file is expected fails the read
		_, err := LoadPresets(dir)
		if err == nil {
			t.Fatal("expected an error reading a directory")
		}
		if !strings.Contains(err.Error(), "read presets file") {
			t.Errorf("error %q should mention the read failure", err)
		}
	})
}

func TestParsePresets(t *testing.T) {
	t.Run("maps yaml steps onto engine steps", func(t *testing.T) {
		lib, err := ParsePresets([]byte(samplePresetsYAML))
		if err != nil {
			t.Fatalf("ParsePresets() error = %v", err)
		}

		thumb, ok := lib.Get("web_thumbnail")
		if !ok {
			t.Fatal("web_thumbnail preset not found")
		}
		if len(thumb.Steps) != 2 {
			t.Fatalf("got %d steps, want 2", len(thumb.Steps))
		}
		if thumb.Steps[0].Op != transform.OpResize {
			t.Errorf("step 0 op = %q, want resize", thumb.Steps[0].Op)
		}
		if thumb.Steps[0].Params.TargetWidth != 320 || thumb.Steps[0].Params.TargetHeight != 240 {
			t.Errorf("resize params = %dx%d, want 320x240",
				thumb.Steps[0].Params.TargetWidth, thumb.Steps[0].Params.TargetHeight)
		}
		if thumb.Steps[1].Params.Adjustment != 10 {
			t.Errorf("brightness adjustment = %v, want 10", thumb.Steps[1].Params.Adjustment)
		}

		archive, ok := lib.Get("archive")
		if !ok {
			t.Fatal("archive preset not found")
		}
		rect := archive.Steps[1].Params.Rect
		if rect.X != 1 || rect.Y != 2 || rect.Width != 3 || rect.Height != 4 {
			t.Errorf("crop rect = %+v, want {1 2 3 4}", rect)
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := ParsePresets([]byte("presets: [not: a: map"))
		if err == nil {
			t.Fatal("expected a parse error")
		}
		if !strings.Contains(err.Error(), "parse presets file") {
			t.Errorf("error %q should mention parsing", err)
		}
	})

	t.Run("rejects unknown operations", func(t *testing.T) {
		_, err := ParsePresets([]byte(`
presets:
  broken:
    - op: flip_horizontal
    - op: sharpen
`))
		if err == nil {
			t.Fatal("expected an error for an unknown op")
		}
		msg := err.Error()
		if !strings.Contains(msg, `"broken"`) || !strings.Contains(msg, "step 1") || !strings.Contains(msg, `"sharpen"`) {
			t.Errorf("error %q should name the preset, step, and op", msg)
		}
	})

	t.Run("rejects presets without steps", func(t *testing.T) {
		_, err := ParsePresets([]byte("presets:\n  hollow: []\n"))
		if err == nil {
			t.Fatal("expected an error for a preset with no steps")
		}
		if !strings.Contains(err.Error(), `"hollow" has no steps`) {
			t.Errorf("unexpected error: %q", err)
		}
	})

	t.Run("rejects empty preset names", func(t *testing.T) {
		_, err := ParsePresets([]byte("presets:\n  \"\":\n    - op: blur\n"))
		if err == nil {
			t.Fatal("expected an error for an empty preset name")
		}
		if !strings.Contains(err.Error(), "empty name") {
			t.Errorf("unexpected error: %q", err)
		}
	})

	t.Run("empty input yields empty library", func(t *testing.T) {
		lib, err := ParsePresets(nil)
		if err != nil {
			t.Fatalf("ParsePresets(nil) error = %v", err)
		}
		if lib.Len() != 0 {
			t.Errorf("Len() = %d, want 0", lib.Len())
		}
	})
}

func TestPresetLibrary(t *testing.T) {
	t.Run("names are sorted", func(t *testing.T) {
		lib, err := ParsePresets([]byte(samplePresetsYAML))
		if err != nil {
			t.Fatalf("ParsePresets() error = %v", err)
		}

		names := lib.Names()
		want := []string{"archive", "web_thumbnail"}
		if len(names) != len(want) {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("get misses cleanly", func(t *testing.T) {
		lib, err := ParsePresets([]byte(samplePresetsYAML))
		if err != nil {
			t.Fatalf("ParsePresets() error = %v", err)
		}
		if _, ok := lib.Get("nope"); ok {
			t.Error("Get(nope) should miss")
		}
	})

	t.Run("nil library is safe", func(t *testing.T) {
		var lib *PresetLibrary
		if lib.Len() != 0 {
			t.Errorf("nil Len() = %d, want 0", lib.Len())
		}
		if _, ok := lib.Get("anything"); ok {
			t.Error("nil Get() should miss")
		}
		if names := lib.Names(); len(names) != 0 {
			t.Errorf("nil Names() = %v, want empty", names)
		}
		if all := lib.All(); len(all) != 0 {
			t.Errorf("nil All() = %v, want empty", all)
		}
	})
}
