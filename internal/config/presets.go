package config

import "sort"

// Presets maps a name to a panel layout. The rest of the configuration is
// left alone when a preset is applied.
var Presets = map[string][]PanelConfig{
	"mirror": {SourcePanel("left"), SourcePanel("right")},
	"drift": {
		SourcePanel("clamped"),
		{
			Name: "unclamped", Coupling: "unclamped-top",
			Top: TripleConfig{Min: -1, Pos: 0, Max: 1},
			Mid: TripleConfig{Min: -2, Pos: 1, Max: 2},
			Btm: TripleConfig{Min: -1, Pos: 0, Max: 1},
		},
	},
	"single": {SourcePanel("solo")},
	"wide": {
		{
			Name: "wide", Coupling: "clamped",
			Top: TripleConfig{Min: -4, Pos: 0, Max: 4},
			Mid: TripleConfig{Min: -3, Pos: 2, Max: 3},
			Btm: TripleConfig{Min: -4, Pos: -1, Max: 4},
		},
		SourcePanel("narrow"),
	},
	"still": {
		{Name: "zero-a", Coupling: "clamped", Top: TripleConfig{Min: -1, Max: 1}, Mid: TripleConfig{Min: -1, Max: 1}, Btm: TripleConfig{Min: -1, Max: 1}},
		{Name: "zero-b", Coupling: "clamped", Top: TripleConfig{Min: -1, Max: 1}, Mid: TripleConfig{Min: -1, Max: 1}, Btm: TripleConfig{Min: -1, Max: 1}},
	},
}

// GetPreset returns a copy of the named layout, or nil.
func GetPreset(name string) []PanelConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	out := make([]PanelConfig, len(p))
	copy(out, p)
	return out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset swaps in the named panel layout and reports whether it exists.
func (c *Config) ApplyPreset(name string) bool {
	p := GetPreset(name)
	if p == nil {
		return false
	}
	c.Panels = p
	return true
}
