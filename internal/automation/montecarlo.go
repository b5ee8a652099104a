package automation

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rowsim/internal/analysis"
	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

// MonteCarloConfig draws random in-bounds positions for every row of Base,
// keeping its ranges.
type MonteCarloConfig struct {
	Base      rowstate.State
	Coupling  rowstate.Coupling
	NumTrials int
	Ticks     int
	Seed      int64
	Workers   int
}

type MonteCarloResult struct {
	TrialID    int            `json:"trial"`
	InitState  rowstate.State `json:"init_state"`
	FinalState rowstate.State `json:"final_state"`
	Cycle      analysis.Cycle `json:"cycle"`
	InBounds   bool           `json:"in_bounds"`
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.Ticks <= 0 {
		return nil, sim.ErrInvalidSteps
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// draw every start up front so results do not depend on scheduling
	starts := make([]rowstate.State, cfg.NumTrials)
	for i := range starts {
		starts[i] = randomStart(rng, cfg.Base)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for trial := range starts {
		trial := trial
		g.Go(func() error {
			init := starts[trial]
			session := sim.NewSession(sim.Config{
				Panels: []sim.PanelSpec{{Name: "trial", Init: init, Coupling: cfg.Coupling}},
			})
			defer session.Close()

			result, err := session.Run(ctx, cfg.Ticks)
			if err != nil {
				return err
			}
			final := result.Final()[0]
			cycle, _ := analysis.DetectCycle(init, cfg.Coupling, cycleLimit(cfg.Ticks))

			results[trial] = MonteCarloResult{
				TrialID:    trial,
				InitState:  init,
				FinalState: final,
				Cycle:      cycle,
				InBounds:   final.InBounds(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func randomStart(rng *rand.Rand, base rowstate.State) rowstate.State {
	s := base
	for _, r := range rowstate.Rows {
		t := s.Row(r)
		if t.Max >= t.Min {
			s.Set(r, rowstate.Pos, t.Min+rng.Intn(t.Max-t.Min+1))
		}
	}
	return s
}

// MonteCarloStats counts trials ending in and out of bounds.
func MonteCarloStats(results []MonteCarloResult) (inBounds int, outOfBounds int) {
	for _, r := range results {
		if r.InBounds {
			inBounds++
		} else {
			outOfBounds++
		}
	}
	return
}

// PeriodHistogram counts trials by detected cycle period. Trials with no
// cycle are counted under 0.
func PeriodHistogram(results []MonteCarloResult) map[int]int {
	h := make(map[int]int)
	for _, r := range results {
		h[r.Cycle.Period]++
	}
	return h
}
