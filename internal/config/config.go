package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

const (
	DefaultIntervalMS = 500
	MinIntervalMS     = 100
	MaxIntervalMS     = 2000
	IntervalStepMS    = 50
	DefaultWidth      = 600
	DefaultHeight     = 400
	DefaultIncrements = 30
	DefaultAddr       = ":8080"
	DefaultDataDir    = "runs"
	EnvPrefix         = "ROWSIM_"
)

type Config struct {
	DataDir  string         `yaml:"data_dir" koanf:"data_dir"`
	Panels   []PanelConfig  `yaml:"panels" koanf:"panels"`
	Autoplay AutoplayConfig `yaml:"autoplay" koanf:"autoplay"`
	Render   RenderConfig   `yaml:"render" koanf:"render"`
	Site     SiteConfig     `yaml:"site" koanf:"site"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
}

type PanelConfig struct {
	Name     string       `yaml:"name" koanf:"name"`
	Coupling string       `yaml:"coupling" koanf:"coupling"`
	Top      TripleConfig `yaml:"top" koanf:"top"`
	Mid      TripleConfig `yaml:"mid" koanf:"mid"`
	Btm      TripleConfig `yaml:"btm" koanf:"btm"`
}

type TripleConfig struct {
	Min int `yaml:"min" koanf:"min"`
	Pos int `yaml:"pos" koanf:"pos"`
	Max int `yaml:"max" koanf:"max"`
}

type AutoplayConfig struct {
	IntervalMS int `yaml:"interval_ms" koanf:"interval_ms"`
	MinMS      int `yaml:"min_ms" koanf:"min_ms"`
	MaxMS      int `yaml:"max_ms" koanf:"max_ms"`
	StepMS     int `yaml:"step_ms" koanf:"step_ms"`
}

type RenderConfig struct {
	Width      int    `yaml:"width" koanf:"width"`
	Height     int    `yaml:"height" koanf:"height"`
	Increments int    `yaml:"increments" koanf:"increments"`
	Theme      string `yaml:"theme" koanf:"theme"`
}

type SiteConfig struct {
	Addr         string `yaml:"addr" koanf:"addr"`
	Manifest     string `yaml:"manifest" koanf:"manifest"`
	Dir          string `yaml:"dir" koanf:"dir"`
	CommentEmail string `yaml:"comment_email" koanf:"comment_email"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	File  string `yaml:"file" koanf:"file"`
}

func (t TripleConfig) Triple() rowstate.Triple {
	return rowstate.NewTriple(t.Min, t.Pos, t.Max)
}

func (p PanelConfig) State() rowstate.State {
	return rowstate.NewState(p.Top.Triple(), p.Mid.Triple(), p.Btm.Triple())
}

// SourcePanel is the starting layout every panel uses by default.
func SourcePanel(name string) PanelConfig {
	return PanelConfig{
		Name:     name,
		Coupling: rowstate.Clamped.String(),
		Top:      TripleConfig{Min: -1, Pos: 0, Max: 1},
		Mid:      TripleConfig{Min: -2, Pos: 1, Max: 2},
		Btm:      TripleConfig{Min: -1, Pos: 0, Max: 1},
	}
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Panels:  []PanelConfig{SourcePanel("left"), SourcePanel("right")},
		Autoplay: AutoplayConfig{
			IntervalMS: DefaultIntervalMS,
			MinMS:      MinIntervalMS,
			MaxMS:      MaxIntervalMS,
			StepMS:     IntervalStepMS,
		},
		Render: RenderConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Increments: DefaultIncrements,
			Theme:      "default",
		},
		Site: SiteConfig{
			Addr: DefaultAddr,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load starts from DefaultConfig, overlays the YAML file at path if it
// exists, then ROWSIM_* environment variables. A double underscore in a
// variable name descends one level: ROWSIM_AUTOPLAY__INTERVAL_MS sets
// autoplay.interval_ms.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// a configured panel list replaces the defaults instead of merging
	// into them index by index
	if k.Exists("panels") {
		cfg.Panels = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	a := c.Autoplay
	if a.MinMS <= 0 || a.MaxMS < a.MinMS {
		return fmt.Errorf("autoplay range %d..%d ms is invalid", a.MinMS, a.MaxMS)
	}
	if a.IntervalMS < a.MinMS || a.IntervalMS > a.MaxMS {
		return fmt.Errorf("autoplay interval %d ms outside %d..%d", a.IntervalMS, a.MinMS, a.MaxMS)
	}
	if a.StepMS <= 0 {
		return fmt.Errorf("autoplay step must be positive, got %d", a.StepMS)
	}

	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("render size %dx%d must be positive", r.Width, r.Height)
	}
	if r.Increments <= 0 {
		return fmt.Errorf("render increments must be positive, got %d", r.Increments)
	}

	seen := make(map[string]bool)
	for i, p := range c.Panels {
		if _, err := rowstate.ParseCoupling(p.Coupling); err != nil {
			return fmt.Errorf("panel %d: %w", i, err)
		}
		if p.Name != "" && seen[p.Name] {
			return fmt.Errorf("panel %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Interval is the configured autoplay period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Autoplay.IntervalMS) * time.Millisecond
}

// Session converts the panel list into a session configuration.
func (c *Config) Session() (sim.Config, error) {
	out := sim.Config{Interval: c.Interval()}
	for i, p := range c.Panels {
		coupling, err := rowstate.ParseCoupling(p.Coupling)
		if err != nil {
			return sim.Config{}, fmt.Errorf("panel %d: %w", i, err)
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("panel-%d", i)
		}
		out.Panels = append(out.Panels, sim.PanelSpec{
			Name:     name,
			Init:     p.State(),
			Coupling: coupling,
		})
	}
	return out, nil
}

// ClampInterval snaps ms onto the slider range and step.
func (c *Config) ClampInterval(ms int) int {
	a := c.Autoplay
	if ms < a.MinMS {
		ms = a.MinMS
	}
	if ms > a.MaxMS {
		ms = a.MaxMS
	}
	if a.StepMS > 0 {
		ms = a.MinMS + (ms-a.MinMS)/a.StepMS*a.StepMS
	}
	return ms
}
