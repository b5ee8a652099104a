package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

var constructors = map[string]func() sim.Metric{
	"bounds":     func() sim.Metric { return NewBounds() },
	"top_drift":  func() sim.Metric { return NewTopDrift() },
	"agreement":  func() sim.Metric { return NewAgreement() },
	"top_spread": func() sim.Metric { return NewSpread(rowstate.Top) },
	"mid_spread": func() sim.Metric { return NewSpread(rowstate.Mid) },
	"btm_spread": func() sim.Metric { return NewSpread(rowstate.Btm) },
}

func New(name string) (sim.Metric, error) {
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return c(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default is the set attached to headless runs.
func Default() []sim.Metric {
	return []sim.Metric{NewBounds(), NewTopDrift(), NewAgreement(), NewSpread(rowstate.Top)}
}
