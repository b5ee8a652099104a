package sim

import (
	"math"
	"strings"
	"unicode"

	"github.com/san-kum/rowsim/internal/rowstate"
)

// Panel owns one three-row state. It is not safe for concurrent use; the
// session serializes access.
type Panel struct {
	id       PanelID
	name     string
	coupling rowstate.Coupling
	init     rowstate.State
	state    rowstate.State
	ticks    int
}

func NewPanel(name string, init rowstate.State, c rowstate.Coupling) *Panel {
	return &Panel{
		name:     name,
		coupling: c,
		init:     init,
		state:    init,
	}
}

func (p *Panel) ID() PanelID                 { return p.id }
func (p *Panel) Name() string                { return p.name }
func (p *Panel) Coupling() rowstate.Coupling { return p.coupling }
func (p *Panel) Ticks() int                  { return p.ticks }

// State returns a copy; changing it does not affect the panel.
func (p *Panel) State() rowstate.State { return p.state }

func (p *Panel) Tick() {
	p.state.Tick(p.coupling)
	p.ticks++
}

// SetField stores v as-is. Bounds are not checked and pos is not clamped
// until the next tick.
func (p *Panel) SetField(r rowstate.Row, f rowstate.Field, v int) {
	p.state.Set(r, f, v)
}

// SetFieldText parses the leading integer of text and stores it. Text with
// no leading integer is ignored and false is returned.
func (p *Panel) SetFieldText(r rowstate.Row, f rowstate.Field, text string) bool {
	v, ok := ParseLeadingInt(text)
	if !ok {
		return false
	}
	p.SetField(r, f, v)
	return true
}

func (p *Panel) Reset() {
	p.state = p.init
	p.ticks = 0
}

func (p *Panel) info() PanelInfo {
	return PanelInfo{
		ID:       p.id,
		Name:     p.name,
		Coupling: p.coupling,
		Ticks:    p.ticks,
		State:    p.state,
	}
}

// ParseLeadingInt reads an optionally signed integer from the start of s,
// after leading whitespace, and ignores whatever follows it: "12abc" is 12,
// "3.7" is 3. A "0x" prefix selects base 16. It fails when no digit is found
// or the value does not fit in an int.
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	var n uint64
	digits := 0
	for _, c := range s {
		d := digitVal(c)
		if d < 0 || d >= base {
			break
		}
		if n > (math.MaxInt64-uint64(d))/uint64(base) {
			return 0, false
		}
		n = n*uint64(base) + uint64(d)
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if n > math.MaxInt {
		return 0, false
	}
	if neg {
		return -int(n), true
	}
	return int(n), true
}

func digitVal(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
