package rowstate

import (
	"fmt"
	"strings"
)

// Coupling selects the tick variant. With ClampTop false the Top row is
// moved but never pulled back into its range; Mid and Btm are always clamped.
type Coupling struct {
	ClampTop bool
}

var (
	Clamped      = Coupling{ClampTop: true}
	UnclampedTop = Coupling{ClampTop: false}
)

func (c Coupling) String() string {
	if c.ClampTop {
		return "clamped"
	}
	return "unclamped-top"
}

func ParseCoupling(s string) (Coupling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamped":
		return Clamped, nil
	case "unclamped-top", "unclamped":
		return UnclampedTop, nil
	}
	return Coupling{}, fmt.Errorf("%w: %q", ErrUnknownCoupling, s)
}

// Sign returns +1, -1 or 0.
func Sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Tick advances all three rows by one coupled step. The update order is
// part of the dynamics: Btm reads Top after Top has moved.
func (s *State) Tick(c Coupling) {
	s.Top.Pos += Sign(s.Mid.Pos)
	if c.ClampTop {
		s.Top.clampPos()
	}

	s.Mid.Pos += Sign(s.Btm.Pos)
	s.Mid.clampPos()

	s.Btm.Pos -= Sign(s.Top.Pos)
	s.Btm.clampPos()
}

// Next returns the state one tick after s, leaving s untouched.
func (s State) Next(c Coupling) State {
	s.Tick(c)
	return s
}
