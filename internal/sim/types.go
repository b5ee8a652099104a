package sim

import (
	"time"

	"github.com/san-kum/rowsim/internal/rowstate"
)

// PanelID is a panel's position in the registry. Panel 0 is the reference.
type PanelID int

type PanelSpec struct {
	Name     string
	Init     rowstate.State
	Coupling rowstate.Coupling
}

type Config struct {
	Panels   []PanelSpec
	Interval time.Duration
}

// Observer is notified after every synchronized tick with a copy of each
// panel's state, in registry order.
type Observer interface {
	OnTick(tick int, states []rowstate.State)
}

type ObserverFunc func(tick int, states []rowstate.State)

func (f ObserverFunc) OnTick(tick int, states []rowstate.State) { f(tick, states) }

type Metric interface {
	Name() string
	Observe(tick int, states []rowstate.State)
	Value() float64
	Reset()
}

// PanelInfo is a read-only snapshot of one panel.
type PanelInfo struct {
	ID       PanelID
	Name     string
	Coupling rowstate.Coupling
	Ticks    int
	State    rowstate.State
}

type Result struct {
	Panels  []string
	States  [][]rowstate.State
	Matches []bool
	Ticks   int
	Metrics map[string]float64
}

// Final returns the states after the last recorded tick.
func (r *Result) Final() []rowstate.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Trajectory returns one panel's state at every recorded tick.
func (r *Result) Trajectory(id PanelID) []rowstate.State {
	out := make([]rowstate.State, 0, len(r.States))
	for _, snap := range r.States {
		if int(id) < len(snap) {
			out = append(out, snap[id])
		}
	}
	return out
}
