package sim

import (
	"fmt"

	"github.com/san-kum/rowsim/internal/rowstate"
)

// Registry is an ordered, append-only set of panels.
type Registry struct {
	panels []*Panel
}

func NewRegistry() *Registry {
	return &Registry{panels: make([]*Panel, 0)}
}

func (r *Registry) Add(p *Panel) PanelID {
	p.id = PanelID(len(r.panels))
	r.panels = append(r.panels, p)
	return p.id
}

func (r *Registry) Get(id PanelID) (*Panel, error) {
	if id < 0 || int(id) >= len(r.panels) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchPanel, id)
	}
	return r.panels[id], nil
}

func (r *Registry) Len() int { return len(r.panels) }

func (r *Registry) Panels() []*Panel {
	out := make([]*Panel, len(r.panels))
	copy(out, r.panels)
	return out
}

// TickAll advances every panel once, in registry order.
func (r *Registry) TickAll() {
	for _, p := range r.panels {
		p.Tick()
	}
}

func (r *Registry) States() []rowstate.State {
	out := make([]rowstate.State, len(r.panels))
	for i, p := range r.panels {
		out[i] = p.state
	}
	return out
}

func (r *Registry) AllMatch() bool { return AllMatch(r.panels...) }

func (r *Registry) Mismatches() []PanelID { return Mismatches(r.panels...) }

// AllMatch reports whether every panel holds the same nine values as the
// first. Fewer than two panels always match.
func AllMatch(panels ...*Panel) bool {
	if len(panels) < 2 {
		return true
	}
	ref := panels[0].state
	for _, p := range panels[1:] {
		if !p.state.Equal(ref) {
			return false
		}
	}
	return true
}

// Mismatches lists the panels that differ from the first one.
func Mismatches(panels ...*Panel) []PanelID {
	var out []PanelID
	if len(panels) < 2 {
		return out
	}
	ref := panels[0].state
	for i, p := range panels[1:] {
		if !p.state.Equal(ref) {
			out = append(out, PanelID(i+1))
		}
	}
	return out
}

// StatesMatch is AllMatch over bare states.
func StatesMatch(states []rowstate.State) bool {
	for i := 1; i < len(states); i++ {
		if !states[i].Equal(states[0]) {
			return false
		}
	}
	return true
}
