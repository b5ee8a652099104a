package rowstate

import (
	"fmt"
	"strings"
)

type Field int

const (
	Min Field = iota
	Pos
	Max
)

var Fields = [...]Field{Min, Pos, Max}

func (f Field) String() string {
	switch f {
	case Min:
		return "min"
	case Pos:
		return "pos"
	case Max:
		return "max"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min":
		return Min, nil
	case "pos":
		return Pos, nil
	case "max":
		return Max, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

type Row int

const (
	Top Row = iota
	Mid
	Btm
)

var Rows = [...]Row{Top, Mid, Btm}

func (r Row) String() string {
	switch r {
	case Top:
		return "top"
	case Mid:
		return "mid"
	case Btm:
		return "btm"
	}
	return fmt.Sprintf("row(%d)", int(r))
}

func ParseRow(s string) (Row, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top, nil
	case "mid":
		return Mid, nil
	case "btm", "bottom":
		return Btm, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRow, s)
}

// Triple is one row: its allowed range and current position.
type Triple struct {
	Min int `json:"min"`
	Pos int `json:"pos"`
	Max int `json:"max"`
}

func NewTriple(min, pos, max int) Triple {
	return Triple{Min: min, Pos: pos, Max: max}
}

func (t Triple) Get(f Field) int {
	switch f {
	case Min:
		return t.Min
	case Max:
		return t.Max
	default:
		return t.Pos
	}
}

// Set stores v without checking it against the other two fields.
func (t *Triple) Set(f Field, v int) {
	switch f {
	case Min:
		t.Min = v
	case Pos:
		t.Pos = v
	case Max:
		t.Max = v
	}
}

func (t Triple) InBounds() bool {
	return t.Min <= t.Pos && t.Pos <= t.Max
}

func (t *Triple) clampPos() {
	if t.Pos > t.Max {
		t.Pos = t.Max
	}
	if t.Pos < t.Min {
		t.Pos = t.Min
	}
}

func (t Triple) String() string {
	return fmt.Sprintf("[%d %d %d]", t.Min, t.Pos, t.Max)
}

// State holds the three rows of one panel. It contains no references, so
// assigning a State copies it completely.
type State struct {
	Top Triple `json:"top"`
	Mid Triple `json:"mid"`
	Btm Triple `json:"btm"`
}

func NewState(top, mid, btm Triple) State {
	return State{Top: top, Mid: mid, Btm: btm}
}

func (s State) Row(r Row) Triple {
	switch r {
	case Mid:
		return s.Mid
	case Btm:
		return s.Btm
	default:
		return s.Top
	}
}

func (s *State) row(r Row) *Triple {
	switch r {
	case Mid:
		return &s.Mid
	case Btm:
		return &s.Btm
	default:
		return &s.Top
	}
}

func (s State) Get(r Row, f Field) int {
	return s.Row(r).Get(f)
}

func (s *State) Set(r Row, f Field, v int) {
	s.row(r).Set(f, v)
}

// Equal compares all nine fields.
func (s State) Equal(o State) bool {
	return s == o
}

func (s State) InBounds() bool {
	return s.Top.InBounds() && s.Mid.InBounds() && s.Btm.InBounds()
}

// Values flattens the state row-major: top min/pos/max, mid ..., btm ...
func (s State) Values() [9]int {
	return [9]int{
		s.Top.Min, s.Top.Pos, s.Top.Max,
		s.Mid.Min, s.Mid.Pos, s.Mid.Max,
		s.Btm.Min, s.Btm.Pos, s.Btm.Max,
	}
}

// FromValues is the inverse of Values.
func FromValues(v [9]int) State {
	return State{
		Top: Triple{Min: v[0], Pos: v[1], Max: v[2]},
		Mid: Triple{Min: v[3], Pos: v[4], Max: v[5]},
		Btm: Triple{Min: v[6], Pos: v[7], Max: v[8]},
	}
}

func (s State) String() string {
	return fmt.Sprintf("top=%s mid=%s btm=%s", s.Top, s.Mid, s.Btm)
}

// ColumnNames labels the entries of Values, e.g. for CSV headers.
func ColumnNames() []string {
	names := make([]string, 0, 9)
	for _, r := range Rows {
		for _, f := range Fields {
			names = append(names, r.String()+"_"+f.String())
		}
	}
	return names
}
