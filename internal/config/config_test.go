package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rowsim/internal/rowstate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(cfg.Panels))
	}
	if cfg.Autoplay.IntervalMS != 500 {
		t.Errorf("expected interval 500, got %d", cfg.Autoplay.IntervalMS)
	}
	if cfg.Render.Increments != 30 {
		t.Errorf("expected increments 30, got %d", cfg.Render.Increments)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	want := rowstate.NewState(
		rowstate.NewTriple(-1, 0, 1),
		rowstate.NewTriple(-2, 1, 2),
		rowstate.NewTriple(-1, 0, 1),
	)
	if got := cfg.Panels[0].State(); got != want {
		t.Errorf("default panel state = %s", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.Panels) != 2 {
		t.Errorf("expected defaults, got %d panels", len(cfg.Panels))
	}
}

func TestLoad_FileReplacesPanels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rowsim.yaml")
	data := `
autoplay:
  interval_ms: 250
panels:
  - name: only
    coupling: unclamped-top
    top: {min: -3, pos: 1, max: 3}
    mid: {min: -2, pos: 0, max: 2}
    btm: {min: -1, pos: 0, max: 1}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Autoplay.IntervalMS != 250 {
		t.Errorf("interval = %d, want 250", cfg.Autoplay.IntervalMS)
	}
	if cfg.Autoplay.MaxMS != MaxIntervalMS {
		t.Errorf("unset max_ms lost its default: %d", cfg.Autoplay.MaxMS)
	}
	if len(cfg.Panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(cfg.Panels))
	}
	p := cfg.Panels[0]
	if p.Name != "only" || p.Coupling != "unclamped-top" || p.Top.Min != -3 || p.Top.Pos != 1 {
		t.Errorf("unexpected panel %+v", p)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ROWSIM_AUTOPLAY__INTERVAL_MS", "750")
	t.Setenv("ROWSIM_LOG__LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Autoplay.IntervalMS != 750 {
		t.Errorf("interval = %d, want 750", cfg.Autoplay.IntervalMS)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.ApplyPreset("drift")
	cfg.Site.Manifest = "https://example.com/manifest.json"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got.Panels) != 2 || got.Panels[1].Coupling != "unclamped-top" {
		t.Errorf("panels not preserved: %+v", got.Panels)
	}
	if got.Site.Manifest != cfg.Site.Manifest {
		t.Errorf("manifest = %q", got.Site.Manifest)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"interval below range", func(c *Config) { c.Autoplay.IntervalMS = 50 }},
		{"interval above range", func(c *Config) { c.Autoplay.IntervalMS = 5000 }},
		{"zero step", func(c *Config) { c.Autoplay.StepMS = 0 }},
		{"zero width", func(c *Config) { c.Render.Width = 0 }},
		{"zero increments", func(c *Config) { c.Render.Increments = 0 }},
		{"bad coupling", func(c *Config) { c.Panels[0].Coupling = "loose" }},
		{"duplicate name", func(c *Config) { c.Panels[1].Name = c.Panels[0].Name }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyPreset("drift")
	sc, err := cfg.Session()
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(sc.Panels))
	}
	if sc.Panels[1].Coupling != rowstate.UnclampedTop {
		t.Errorf("coupling = %v", sc.Panels[1].Coupling)
	}
	if sc.Interval.Milliseconds() != 500 {
		t.Errorf("interval = %v", sc.Interval)
	}
}

func TestClampInterval(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct{ in, want int }{
		{50, 100}, {100, 100}, {149, 100}, {150, 150}, {2000, 2000}, {9999, 2000},
	}
	for _, tt := range tests {
		if got := cfg.ClampInterval(tt.in); got != tt.want {
			t.Errorf("ClampInterval(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPresets(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("ListPresets returned %d names", len(names))
	}
	for _, name := range names {
		cfg := DefaultConfig()
		if !cfg.ApplyPreset(name) {
			t.Errorf("preset %s not applied", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	p := GetPreset("mirror")
	p[0].Name = "changed"
	if Presets["mirror"][0].Name == "changed" {
		t.Error("GetPreset returned shared storage")
	}
}
