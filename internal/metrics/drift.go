package metrics

import (
	"github.com/san-kum/rowsim/internal/rowstate"
)

// TopDrift records how far the Top position has strayed outside its range,
// across all panels. Clamped panels always report 0.
type TopDrift struct {
	name string
	max  int
}

func NewTopDrift() *TopDrift {
	return &TopDrift{name: "top_drift"}
}

func (d *TopDrift) Name() string { return d.name }

func (d *TopDrift) Observe(tick int, states []rowstate.State) {
	for _, s := range states {
		if e := excursion(s.Top); e > d.max {
			d.max = e
		}
	}
}

func (d *TopDrift) Value() float64 { return float64(d.max) }

func (d *TopDrift) Reset() { d.max = 0 }

func excursion(t rowstate.Triple) int {
	switch {
	case t.Pos > t.Max:
		return t.Pos - t.Max
	case t.Pos < t.Min:
		return t.Min - t.Pos
	}
	return 0
}
