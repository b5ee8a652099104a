package server

import (
	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

type TripleView struct {
	Min int `json:"min"`
	Pos int `json:"pos"`
	Max int `json:"max"`
}

type RowsView struct {
	Top TripleView `json:"top"`
	Mid TripleView `json:"mid"`
	Btm TripleView `json:"btm"`
}

type PanelView struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Coupling string `json:"coupling"`
	Ticks    int    `json:"ticks"`
	RowsView
}

type AutoplayView struct {
	Running    bool `json:"running"`
	IntervalMS int  `json:"interval_ms"`
}

type StateView struct {
	Ticks      int          `json:"ticks"`
	Match      bool         `json:"match"`
	Mismatches []int        `json:"mismatches"`
	Autoplay   AutoplayView `json:"autoplay"`
	Panels     []PanelView  `json:"panels"`
}

// TickFrame is what the websocket stream sends after each tick.
type TickFrame struct {
	Tick   int        `json:"tick"`
	Match  bool       `json:"match"`
	Panels []RowsView `json:"panels"`
}

func tripleView(t rowstate.Triple) TripleView {
	return TripleView{Min: t.Min, Pos: t.Pos, Max: t.Max}
}

func rowsView(st rowstate.State) RowsView {
	return RowsView{
		Top: tripleView(st.Row(rowstate.Top)),
		Mid: tripleView(st.Row(rowstate.Mid)),
		Btm: tripleView(st.Row(rowstate.Btm)),
	}
}

func newTickFrame(tick int, states []rowstate.State) TickFrame {
	f := TickFrame{
		Tick:   tick,
		Match:  sim.StatesMatch(states),
		Panels: make([]RowsView, len(states)),
	}
	for i, st := range states {
		f.Panels[i] = rowsView(st)
	}
	return f
}

func stateView(s *sim.Session) StateView {
	running, interval := s.Autoplay()
	v := StateView{
		Ticks:      s.Ticks(),
		Match:      s.AllMatch(),
		Mismatches: []int{},
		Autoplay: AutoplayView{
			Running:    running,
			IntervalMS: int(interval.Milliseconds()),
		},
	}
	for _, id := range s.Mismatches() {
		v.Mismatches = append(v.Mismatches, int(id))
	}
	for _, p := range s.Panels() {
		v.Panels = append(v.Panels, PanelView{
			ID:       int(p.ID),
			Name:     p.Name,
			Coupling: p.Coupling.String(),
			Ticks:    p.Ticks,
			RowsView: rowsView(p.State),
		})
	}
	return v
}
