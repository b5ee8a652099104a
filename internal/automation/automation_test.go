package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/rowsim/internal/analysis"
	"github.com/san-kum/rowsim/internal/rowstate"
)

const mirrorScenario = `
name: mirror
description: two panels stay together until one is edited
preset: mirror
steps:
  - action: tick
    count: 3
  - action: expect
    match: true
    panel: 0
    row: mid
    field: pos
    equals: -1
  - action: set
    panel: 1
    row: btm
    field: max
    value: "4abc"
  - action: expect
    match: false
    panel: 1
    row: btm
    field: max
    equals: 4
  - action: reset
  - action: expect
    match: true
`

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(mirrorScenario))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	results, err := RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != len(sc.Steps) {
		t.Fatalf("got %d results for %d steps", len(results), len(sc.Steps))
	}
	if results[0].Ticks != 3 {
		t.Errorf("ticks after first step = %d", results[0].Ticks)
	}
	if results[2].Match {
		t.Error("expected mismatch after set")
	}
	if results[4].Ticks != 0 {
		t.Error("reset did not clear ticks")
	}
}

func TestRunScenario_FailedExpectation(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: wrong
steps:
  - action: tick
  - action: expect
    row: top
    field: pos
    equals: 0
  - action: tick
`))
	if err != nil {
		t.Fatal(err)
	}
	results, err := RunScenario(context.Background(), sc)
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("expected ErrExpectation, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected run to stop after the first step, got %d results", len(results))
	}
}

func TestRunScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown action", "steps:\n  - action: jump\n"},
		{"bad row", "steps:\n  - action: set\n    row: side\n    field: pos\n    value: '1'\n"},
		{"bad interval", "steps:\n  - action: interval\n    interval_ms: 0\n"},
		{"unknown preset", "preset: nope\nsteps:\n  - action: tick\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := ParseScenario([]byte(tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := RunScenario(context.Background(), sc); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseScenario_NoSteps(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func source() rowstate.State {
	return rowstate.NewState(
		rowstate.NewTriple(-1, 0, 1),
		rowstate.NewTriple(-2, 1, 2),
		rowstate.NewTriple(-1, 0, 1),
	)
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:     source(),
		Coupling: rowstate.Clamped,
		Row:      rowstate.Mid,
		Field:    rowstate.Pos,
		Min:      -2,
		Max:      2,
		Ticks:    24,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Bounds != 1.0 {
			t.Errorf("value %d: bounds = %f, want 1", r.Value, r.Bounds)
		}
		if r.Cycle.Period == 0 {
			t.Errorf("value %d: no cycle", r.Value)
		}
	}
	if results[3].Cycle != (analysis.Cycle{Start: 1, Period: 12}) {
		t.Errorf("mid.pos=1 cycle = %v", results[3].Cycle)
	}
}

func TestRunSweep_Invalid(t *testing.T) {
	if _, err := RunSweep(context.Background(), &ParameterSweep{Min: 2, Max: 1, Ticks: 1}); err == nil {
		t.Error("expected empty range error")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Min: 0, Max: 1}); err == nil {
		t.Error("expected ticks error")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	cfg := &MonteCarloConfig{
		Base:      source(),
		Coupling:  rowstate.Clamped,
		NumTrials: 20,
		Ticks:     30,
		Seed:      42,
		Workers:   4,
	}
	results, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(results))
	}
	for i, r := range results {
		if r.TrialID != i {
			t.Errorf("result %d has trial id %d", i, r.TrialID)
		}
		if !r.InitState.InBounds() {
			t.Errorf("trial %d started out of bounds: %s", i, r.InitState)
		}
	}

	in, out := MonteCarloStats(results)
	if in != 20 || out != 0 {
		t.Errorf("clamped trials: in=%d out=%d", in, out)
	}
	hist := PeriodHistogram(results)
	total := 0
	for _, n := range hist {
		total += n
	}
	if total != 20 {
		t.Errorf("histogram covers %d trials", total)
	}

	again, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range results {
		if results[i].InitState != again[i].InitState {
			t.Fatal("same seed produced different starts")
		}
	}
}
