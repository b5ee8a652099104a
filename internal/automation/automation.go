package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rowsim/internal/config"
	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

var ErrExpectation = errors.New("automation: expectation failed")

// Scenario is a scripted sequence of session operations.
type Scenario struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Preset      string               `yaml:"preset"`
	Panels      []config.PanelConfig `yaml:"panels"`
	IntervalMS  int                  `yaml:"interval_ms"`
	Steps       []ScenarioStep       `yaml:"steps"`
}

// ScenarioStep is one operation. Action is one of tick, set, toggle,
// interval, wait, reset or expect.
type ScenarioStep struct {
	Action     string `yaml:"action"`
	Count      int    `yaml:"count"`
	Panel      int    `yaml:"panel"`
	Row        string `yaml:"row"`
	Field      string `yaml:"field"`
	Value      string `yaml:"value"`
	IntervalMS int    `yaml:"interval_ms"`
	WaitMS     int    `yaml:"wait_ms"`
	Match      *bool  `yaml:"match"`
	Equals     *int   `yaml:"equals"`
}

type StepResult struct {
	Index    int              `json:"index"`
	Action   string           `json:"action"`
	Ticks    int              `json:"ticks"`
	Match    bool             `json:"match"`
	Autoplay bool             `json:"autoplay"`
	States   []rowstate.State `json:"states"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// SessionConfig resolves the scenario's panels: explicit panels first,
// then a named preset, then the defaults.
func (sc *Scenario) SessionConfig() (sim.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case len(sc.Panels) > 0:
		cfg.Panels = sc.Panels
	case sc.Preset != "":
		if !cfg.ApplyPreset(sc.Preset) {
			return sim.Config{}, fmt.Errorf("unknown preset %q", sc.Preset)
		}
	}
	if sc.IntervalMS > 0 {
		cfg.Autoplay.IntervalMS = sc.IntervalMS
	}
	return cfg.Session()
}

// RunScenario executes every step against a fresh session. It stops at the
// first failing step and returns the results gathered so far.
func RunScenario(ctx context.Context, sc *Scenario, opts ...sim.Option) ([]StepResult, error) {
	scfg, err := sc.SessionConfig()
	if err != nil {
		return nil, err
	}
	session := sim.NewSession(scfg, opts...)
	defer session.Close()

	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		log.Debug("scenario step", "scenario", sc.Name, "step", i+1, "action", step.Action)
		if err := applyStep(ctx, session, step); err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}

		running, _ := session.Autoplay()
		results = append(results, StepResult{
			Index:    i,
			Action:   step.Action,
			Ticks:    session.Ticks(),
			Match:    session.AllMatch(),
			Autoplay: running,
			States:   session.States(),
		})
	}
	return results, nil
}

func applyStep(ctx context.Context, s *sim.Session, step ScenarioStep) error {
	switch strings.ToLower(step.Action) {
	case "tick":
		n := step.Count
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			s.TickAll()
		}
	case "set":
		ok, err := s.SetField(sim.PanelID(step.Panel), step.Row, step.Field, step.Value)
		if err != nil {
			return err
		}
		if !ok {
			log.Warn("ignored non-numeric value", "panel", step.Panel, "row", step.Row, "field", step.Field, "value", step.Value)
		}
	case "toggle":
		s.ToggleAutoplay()
	case "interval":
		return s.SetInterval(step.IntervalMS)
	case "wait":
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(step.WaitMS) * time.Millisecond):
		}
	case "reset":
		s.Reset()
	case "expect":
		return expect(s, step)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}

func expect(s *sim.Session, step ScenarioStep) error {
	if step.Match != nil {
		if got := s.AllMatch(); got != *step.Match {
			return fmt.Errorf("%w: all match = %v, want %v", ErrExpectation, got, *step.Match)
		}
	}
	if step.Equals != nil {
		r, err := rowstate.ParseRow(step.Row)
		if err != nil {
			return err
		}
		f, err := rowstate.ParseField(step.Field)
		if err != nil {
			return err
		}
		info, err := s.Panel(sim.PanelID(step.Panel))
		if err != nil {
			return err
		}
		if got := info.State.Get(r, f); got != *step.Equals {
			return fmt.Errorf("%w: panel %d %s.%s = %d, want %d", ErrExpectation, step.Panel, r, f, got, *step.Equals)
		}
	}
	return nil
}
