// Package webapi exposes the transform engine over HTTP.
// This file contains the PresetLibrary molecule for named pipeline presets.
package webapi

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"pixlab/filters"
	"pixlab/transform"
)

// Preset is a named, reusable pipeline definition loaded from the presets
// file. Running a preset is equivalent to posting its steps inline.
type Preset struct {
	Name  string           `json:"name"`
	Steps []transform.Step `json:"steps"`
}

// presetFile mirrors the YAML document layout:
//
//	presets:
//	  thumbnail:
//	    - op: resize
//	      params:
//	        target_width: 128
//	        target_height: 128
type presetFile struct {
	Presets map[string][]presetStep `yaml:"presets"`
}

type presetStep struct {
	Op     string       `yaml:"op"`
	Params presetParams `yaml:"params"`
}

type presetParams struct {
	Adjustment   float64    `yaml:"adjustment"`
	Radius       float64    `yaml:"radius"`
	Rect         presetRect `yaml:"rect"`
	TargetWidth  int        `yaml:"target_width"`
	TargetHeight int        `yaml:"target_height"`
}

type presetRect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// toStep converts the YAML form into an engine step.
func (s presetStep) toStep() transform.Step {
	return transform.Step{
		Op: s.Op,
		Params: transform.Params{
			Adjustment: s.Params.Adjustment,
			Radius:     s.Params.Radius,
			Rect: filters.Rect{
				X:      s.Params.Rect.X,
				Y:      s.Params.Rect.Y,
				Width:  s.Params.Rect.Width,
				Height: s.Params.Rect.Height,
			},
			TargetWidth:  s.Params.TargetWidth,
			TargetHeight: s.Params.TargetHeight,
		},
	}
}

// PresetLibrary holds the loaded presets, keyed by name.
// All methods are nil-safe: a nil library behaves as an empty one, so the
// API handlers never need to special-case a service running without a
// presets file.
type PresetLibrary struct {
	presets map[string]Preset
}

// LoadPresets reads and validates the presets file at path.
//
// A missing file is not an error: the service runs fine without presets and
// returns an empty library. A file that exists but does not parse, or that
// references an unknown operation, is an error so a typo in the file is
// caught at startup rather than at request time.
func LoadPresets(path string) (*PresetLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PresetLibrary{presets: map[string]Preset{}}, nil
		}
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	return ParsePresets(data)
}

// ParsePresets parses a presets document from memory.
func ParsePresets(data []byte) (*PresetLibrary, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets file: %w", err)
	}

	presets := make(map[string]Preset, len(file.Presets))
	for name, rawSteps := range file.Presets {
		if name == "" {
			return nil, fmt.Errorf("preset with empty name")
		}
		if len(rawSteps) == 0 {
			return nil, fmt.Errorf("preset %q has no steps", name)
		}

		steps := make([]transform.Step, 0, len(rawSteps))
		for i, raw := range rawSteps {
			if !transform.IsValidOp(raw.Op) {
				return nil, fmt.Errorf("preset %q step %d: unknown operation %q", name, i, raw.Op)
			}
			steps = append(steps, raw.toStep())
		}

		presets[name] = Preset{Name: name, Steps: steps}
	}

	return &PresetLibrary{presets: presets}, nil
}

// Get returns the preset with the given name.
func (l *PresetLibrary) Get(name string) (Preset, bool) {
	if l == nil {
		return Preset{}, false
	}
	preset, ok := l.presets[name]
	return preset, ok
}

// Names returns the preset names in sorted order.
func (l *PresetLibrary) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.presets))
	for name := range l.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every preset, sorted by name.
func (l *PresetLibrary) All() []Preset {
	if l == nil {
		return nil
	}
	all := make([]Preset, 0, len(l.presets))
	for _, name := range l.Names() {
		all = append(all, l.presets[name])
	}
	return all
}

// Len returns the number of loaded presets.
func (l *PresetLibrary) Len() int {
	if l == nil {
		return 0
	}
	return len(l.presets)
}
