package automation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/rowsim/internal/analysis"
	"github.com/san-kum/rowsim/internal/metrics"
	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

// ParameterSweep runs one panel per value of a single field, from Min to
// Max inclusive.
type ParameterSweep struct {
	Base     rowstate.State
	Coupling rowstate.Coupling
	Row      rowstate.Row
	Field    rowstate.Field
	Min      int
	Max      int
	Ticks    int
}

type SweepResult struct {
	Value      int            `json:"value"`
	FinalState rowstate.State `json:"final_state"`
	Cycle      analysis.Cycle `json:"cycle"`
	Bounds     float64        `json:"bounds"`
	TopDrift   float64        `json:"top_drift"`
}

func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Max < sweep.Min {
		return nil, fmt.Errorf("sweep range %d..%d is empty", sweep.Min, sweep.Max)
	}
	if sweep.Ticks <= 0 {
		return nil, fmt.Errorf("%w, got %d", sim.ErrInvalidSteps, sweep.Ticks)
	}

	results := make([]SweepResult, 0, sweep.Max-sweep.Min+1)
	for v := sweep.Min; v <= sweep.Max; v++ {
		init := sweep.Base
		init.Set(sweep.Row, sweep.Field, v)

		bounds, drift := metrics.NewBounds(), metrics.NewTopDrift()
		session := sim.NewSession(sim.Config{
			Panels: []sim.PanelSpec{{Name: "sweep", Init: init, Coupling: sweep.Coupling}},
		}, sim.WithMetric(bounds), sim.WithMetric(drift))

		result, err := session.Run(ctx, sweep.Ticks)
		session.Close()
		if err != nil {
			return results, err
		}

		cycle, err := analysis.DetectCycle(init, sweep.Coupling, cycleLimit(sweep.Ticks))
		if err != nil {
			log.Debug("no cycle found", "value", v, "err", err)
		}

		results = append(results, SweepResult{
			Value:      v,
			FinalState: result.Final()[0],
			Cycle:      cycle,
			Bounds:     result.Metrics[bounds.Name()],
			TopDrift:   result.Metrics[drift.Name()],
		})
		log.Debug("sweep", "row", sweep.Row, "field", sweep.Field, "value", v)
	}
	return results, nil
}

func cycleLimit(ticks int) int {
	if ticks < 1000 {
		return 1000
	}
	return ticks
}
