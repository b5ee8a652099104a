package metrics

import (
	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

// Agreement is the fraction of ticks after which every panel matched.
type Agreement struct {
	name    string
	matches int
	samples int
}

func NewAgreement() *Agreement {
	return &Agreement{
		name: "agreement",
	}
}

func (a *Agreement) Name() string {
	return a.name
}

func (a *Agreement) Observe(tick int, states []rowstate.State) {
	if sim.StatesMatch(states) {
		a.matches++
	}
	a.samples++
}

func (a *Agreement) Value() float64 {
	if a.samples == 0 {
		return 1.0
	}
	return float64(a.matches) / float64(a.samples)
}

func (a *Agreement) Reset() {
	a.matches = 0
	a.samples = 0
}
