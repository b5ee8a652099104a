package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rowsim/internal/rowstate"
)

func source() rowstate.State {
	return rowstate.NewState(
		rowstate.NewTriple(-1, 0, 1),
		rowstate.NewTriple(-2, 1, 2),
		rowstate.NewTriple(-1, 0, 1),
	)
}

func TestBounds(t *testing.T) {
	m := NewBounds()
	if m.Value() != 1.0 {
		t.Errorf("empty bounds = %f, want 1", m.Value())
	}

	out := source()
	out.Top.Pos = 3
	m.Observe(1, []rowstate.State{source(), out})
	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("bounds = %f, want 0.5", m.Value())
	}

	m.Reset()
	m.Observe(1, []rowstate.State{source()})
	if m.Value() != 1.0 {
		t.Errorf("bounds after reset = %f", m.Value())
	}
}

func TestTopDrift_Unclamped(t *testing.T) {
	m := NewTopDrift()
	s := source()
	for i := 0; i < 2; i++ {
		s.Tick(rowstate.UnclampedTop)
		m.Observe(i+1, []rowstate.State{s})
	}
	// top.pos is 2 with max 1
	if m.Value() != 1 {
		t.Errorf("top_drift = %f, want 1", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear drift")
	}
}

func TestTopDrift_Clamped(t *testing.T) {
	m := NewTopDrift()
	s := source()
	for i := 0; i < 40; i++ {
		s.Tick(rowstate.Clamped)
		m.Observe(i+1, []rowstate.State{s})
	}
	if m.Value() != 0 {
		t.Errorf("clamped drift = %f, want 0", m.Value())
	}
}

func TestTopDrift_BelowMin(t *testing.T) {
	m := NewTopDrift()
	s := source()
	s.Top.Pos = -4
	m.Observe(1, []rowstate.State{s})
	if m.Value() != 3 {
		t.Errorf("top_drift = %f, want 3", m.Value())
	}
}

func TestAgreement(t *testing.T) {
	m := NewAgreement()
	a, b := source(), source()
	m.Observe(1, []rowstate.State{a, b})
	b.Mid.Max = 5
	m.Observe(2, []rowstate.State{a, b})
	m.Observe(3, []rowstate.State{a})
	m.Observe(4, nil)

	if math.Abs(m.Value()-0.75) > 1e-9 {
		t.Errorf("agreement = %f, want 0.75", m.Value())
	}
}

func TestSpread(t *testing.T) {
	m := NewSpread(rowstate.Top)
	if m.Name() != "top_spread" {
		t.Errorf("name = %s", m.Name())
	}
	if m.Value() != 0 {
		t.Error("empty spread should be 0")
	}

	lo, hi := source(), source()
	lo.Top.Pos = -1
	hi.Top.Pos = 1
	m.Observe(1, []rowstate.State{lo, hi})
	if math.Abs(m.Value()-1.0) > 1e-9 {
		t.Errorf("spread = %f, want 1", m.Value())
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		m, err := New(name)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if m.Name() != name {
			t.Errorf("metric %s reports name %s", name, m.Name())
		}
	}
	if _, err := New("energy"); err == nil {
		t.Error("expected unknown metric error")
	}
	if len(Default()) == 0 {
		t.Error("no default metrics")
	}
}
