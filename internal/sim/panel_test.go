package sim

import (
	"testing"

	"github.com/san-kum/rowsim/internal/rowstate"
)

func sourceState() rowstate.State {
	return rowstate.NewState(
		rowstate.NewTriple(-1, 0, 1),
		rowstate.NewTriple(-2, 1, 2),
		rowstate.NewTriple(-1, 0, 1),
	)
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"12abc", 12, true},
		{"3.7", 3, true},
		{"  -5", -5, true},
		{"+7", 7, true},
		{"0x10", 16, true},
		{"0", 0, true},
		{"-0", 0, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".5", 0, false},
		{"0x", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLeadingInt(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseLeadingInt(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPanel_StateIsCopy(t *testing.T) {
	p := NewPanel("a", sourceState(), rowstate.Clamped)
	q := NewPanel("b", sourceState(), rowstate.Clamped)

	st := p.State()
	st.Set(rowstate.Mid, rowstate.Pos, -2)
	st.Top.Max = 100

	p.Tick()
	q.Tick()
	if p.State() != q.State() {
		t.Errorf("mutating a returned state leaked into the panel: %s vs %s", p.State(), q.State())
	}
}

func TestPanel_SetFieldText(t *testing.T) {
	p := NewPanel("a", sourceState(), rowstate.Clamped)

	if !p.SetFieldText(rowstate.Top, rowstate.Max, "12abc") {
		t.Fatal("expected leading integer to be accepted")
	}
	if got := p.State().Top.Max; got != 12 {
		t.Errorf("top.max = %d, want 12", got)
	}

	if p.SetFieldText(rowstate.Top, rowstate.Max, "abc") {
		t.Error("expected non-numeric text to be rejected")
	}
	if got := p.State().Top.Max; got != 12 {
		t.Errorf("rejected text changed top.max to %d", got)
	}

	p.SetFieldText(rowstate.Btm, rowstate.Pos, "3.7")
	if got := p.State().Btm.Pos; got != 3 {
		t.Errorf("btm.pos = %d, want 3", got)
	}
}

func TestPanel_SetFieldDoesNotClamp(t *testing.T) {
	p := NewPanel("a", sourceState(), rowstate.Clamped)
	p.SetField(rowstate.Mid, rowstate.Pos, 50)
	if got := p.State().Mid.Pos; got != 50 {
		t.Errorf("mid.pos = %d, want 50 until the next tick", got)
	}
	p.Tick()
	if got := p.State().Mid.Pos; got != 2 {
		t.Errorf("mid.pos = %d after tick, want 2", got)
	}
}

func TestPanel_Reset(t *testing.T) {
	p := NewPanel("a", sourceState(), rowstate.Clamped)
	p.Tick()
	p.Tick()
	p.SetField(rowstate.Top, rowstate.Min, -9)
	p.Reset()

	if p.State() != sourceState() {
		t.Errorf("reset state = %s", p.State())
	}
	if p.Ticks() != 0 {
		t.Errorf("ticks = %d after reset", p.Ticks())
	}
}

func TestAllMatch(t *testing.T) {
	a := NewPanel("a", sourceState(), rowstate.Clamped)
	b := NewPanel("b", sourceState(), rowstate.Clamped)
	c := NewPanel("c", sourceState(), rowstate.Clamped)

	if !AllMatch() {
		t.Error("no panels should match")
	}
	if !AllMatch(a) {
		t.Error("a single panel should match")
	}
	if !AllMatch(a, b, c) {
		t.Error("identical panels should match")
	}

	c.SetField(rowstate.Btm, rowstate.Min, 0)
	if AllMatch(a, b, c) {
		t.Error("expected mismatch after SetField")
	}

	got := Mismatches(a, b, c)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("Mismatches = %v, want [2]", got)
	}
}

func TestAllMatch_DivergingCouplings(t *testing.T) {
	a := NewPanel("a", sourceState(), rowstate.Clamped)
	b := NewPanel("b", sourceState(), rowstate.UnclampedTop)

	a.Tick()
	b.Tick()
	if !AllMatch(a, b) {
		t.Fatal("panels should agree after the first tick")
	}
	a.Tick()
	b.Tick()
	if AllMatch(a, b) {
		t.Errorf("panels should diverge on the second tick: %s vs %s", a.State(), b.State())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if !r.AllMatch() {
		t.Error("empty registry should match")
	}
	r.TickAll()

	id0 := r.Add(NewPanel("a", sourceState(), rowstate.Clamped))
	id1 := r.Add(NewPanel("b", sourceState(), rowstate.Clamped))
	if id0 != 0 || id1 != 1 {
		t.Errorf("ids = %d, %d", id0, id1)
	}

	if _, err := r.Get(2); err == nil {
		t.Error("expected ErrNoSuchPanel")
	}
	if _, err := r.Get(-1); err == nil {
		t.Error("expected ErrNoSuchPanel for negative id")
	}

	r.TickAll()
	states := r.States()
	if len(states) != 2 || states[0] != states[1] {
		t.Errorf("states after tick: %v", states)
	}
	if states[0].Top.Pos != 1 || states[0].Mid.Pos != 1 || states[0].Btm.Pos != -1 {
		t.Errorf("unexpected state after tick: %s", states[0])
	}
}

func TestStatesMatch(t *testing.T) {
	s := sourceState()
	if !StatesMatch(nil) || !StatesMatch([]rowstate.State{s}) {
		t.Error("short slices should match")
	}
	o := s
	o.Top.Pos = 1
	if StatesMatch([]rowstate.State{s, s, o}) {
		t.Error("expected mismatch")
	}
}
