package analysis

import (
	"errors"
	"fmt"

	"github.com/san-kum/rowsim/internal/rowstate"
)

var ErrNoCycle = errors.New("analysis: no cycle within step limit")

// Cycle describes an eventually periodic orbit: the state after Start ticks
// is the first one that recurs, and it recurs every Period ticks.
type Cycle struct {
	Start  int `json:"start"`
	Period int `json:"period"`
}

func (c Cycle) String() string {
	return fmt.Sprintf("period %d after %d ticks", c.Period, c.Start)
}

// DetectCycle runs Brent's algorithm on the orbit of start. limit bounds
// the number of ticks spent looking for the period.
func DetectCycle(start rowstate.State, c rowstate.Coupling, limit int) (Cycle, error) {
	next := func(s rowstate.State) rowstate.State { return s.Next(c) }

	power, lam := 1, 1
	tortoise := start
	hare := next(start)
	steps := 1
	for !tortoise.Equal(hare) {
		if steps >= limit {
			return Cycle{}, fmt.Errorf("%w (%d)", ErrNoCycle, limit)
		}
		if power == lam {
			tortoise = hare
			power *= 2
			lam = 0
		}
		hare = next(hare)
		lam++
		steps++
	}

	tortoise, hare = start, start
	for i := 0; i < lam; i++ {
		hare = next(hare)
	}
	mu := 0
	for !tortoise.Equal(hare) {
		tortoise = next(tortoise)
		hare = next(hare)
		mu++
	}

	return Cycle{Start: mu, Period: lam}, nil
}
