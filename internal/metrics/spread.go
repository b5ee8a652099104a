package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/rowsim/internal/rowstate"
)

// Spread is the standard deviation of one row's position over every
// observed panel state.
type Spread struct {
	name   string
	row    rowstate.Row
	values []float64
}

func NewSpread(row rowstate.Row) *Spread {
	return &Spread{
		name: row.String() + "_spread",
		row:  row,
	}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(tick int, states []rowstate.State) {
	for _, st := range states {
		s.values = append(s.values, float64(st.Get(s.row, rowstate.Pos)))
	}
}

func (s *Spread) Value() float64 {
	if len(s.values) < 2 {
		return 0
	}
	return stat.PopStdDev(s.values, nil)
}

func (s *Spread) Reset() { s.values = s.values[:0] }
