package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

const (
	span        = 12 // values drawn either side of zero
	cellsPerInc = 2
	width       = 2*span*cellsPerInc + 1
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws every panel as text after each tick, at most
// frameRate times per second.
type LiveRenderer struct {
	out       io.Writer
	names     []string
	frameRate int
	lastFrame time.Time
	now       func() time.Time
	frames    int
}

var _ sim.Observer = (*LiveRenderer)(nil)

func NewLiveRenderer(out io.Writer, names []string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		names:     names,
		frameRate: frameRate,
		now:       time.Now,
	}
}

func (r *LiveRenderer) OnTick(tick int, states []rowstate.State) {
	now := r.now()
	if !r.lastFrame.IsZero() && now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now
	r.frames++
	fmt.Fprint(r.out, clearScreen+r.Frame(tick, states))
}

// Frames reports how many frames have been written.
func (r *LiveRenderer) Frames() int { return r.frames }

// Frame lays out one text frame without writing it.
func (r *LiveRenderer) Frame(tick int, states []rowstate.State) string {
	var b strings.Builder
	status := "match"
	if !sim.StatesMatch(states) {
		status = "DIFFER"
	}
	fmt.Fprintf(&b, "  tick %d  [%s]\n", tick, status)
	b.WriteString("  " + strings.Repeat("=", width+6) + "\n")

	for i, st := range states {
		name := fmt.Sprintf("panel-%d", i)
		if i < len(r.names) && r.names[i] != "" {
			name = r.names[i]
		}
		fmt.Fprintf(&b, "  %s\n", name)
		for _, row := range rowstate.Rows {
			t := st.Row(row)
			fmt.Fprintf(&b, "  %-4s %s  %s\n", row, track(t), t)
		}
		b.WriteString("  " + strings.Repeat("-", width+6) + "\n")
	}
	return b.String()
}

// track draws one row: a guide line, bound markers and the position.
func track(t rowstate.Triple) string {
	line := []rune(strings.Repeat("-", width))
	set := func(v int, c rune) {
		col := (v + span) * cellsPerInc
		if col < 0 {
			line[0] = '<'
			return
		}
		if col >= width {
			line[width-1] = '>'
			return
		}
		line[col] = c
	}
	set(0, '+')
	set(t.Min, '[')
	set(t.Max, ']')
	set(t.Pos, 'O')
	return string(line)
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
