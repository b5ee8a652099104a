package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/rowsim/internal/rowstate"
)

type RowSummary struct {
	Row         string  `json:"row"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	OutOfBounds int     `json:"out_of_bounds"`
}

// Summarize reports position statistics for each row of traj, in Top, Mid,
// Btm order. An empty trajectory yields nil.
func Summarize(traj []rowstate.State) []RowSummary {
	if len(traj) == 0 {
		return nil
	}

	out := make([]RowSummary, 0, len(rowstate.Rows))
	values := make([]float64, len(traj))
	for _, r := range rowstate.Rows {
		outside := 0
		for i, s := range traj {
			t := s.Row(r)
			values[i] = float64(t.Pos)
			if !t.InBounds() {
				outside++
			}
		}
		mean, std := stat.PopMeanStdDev(values, nil)
		out = append(out, RowSummary{
			Row:         r.String(),
			Mean:        mean,
			StdDev:      std,
			Min:         floats.Min(values),
			Max:         floats.Max(values),
			OutOfBounds: outside,
		})
	}
	return out
}
