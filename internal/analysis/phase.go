package analysis

import (
	"sort"
	"strings"

	"github.com/san-kum/rowsim/internal/rowstate"
)

type Point struct{ X, Y int }

// PhasePortrait holds the positions of two rows at every step of a
// trajectory, and how often each pair was visited.
type PhasePortrait struct {
	XRow, YRow rowstate.Row
	Points     []Point
	Visits     map[Point]int
}

func NewPhasePortrait(traj []rowstate.State, xRow, yRow rowstate.Row) *PhasePortrait {
	p := &PhasePortrait{
		XRow:   xRow,
		YRow:   yRow,
		Points: make([]Point, 0, len(traj)),
		Visits: make(map[Point]int),
	}
	for _, s := range traj {
		pt := Point{X: s.Get(xRow, rowstate.Pos), Y: s.Get(yRow, rowstate.Pos)}
		p.Points = append(p.Points, pt)
		p.Visits[pt]++
	}
	return p
}

// Distinct returns the visited points sorted by X then Y.
func (p *PhasePortrait) Distinct() []Point {
	out := make([]Point, 0, len(p.Visits))
	for pt := range p.Visits {
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// ASCII draws one cell per integer position. Visited cells are '•', the
// axes are drawn where they fall inside the visited range.
func (p *PhasePortrait) ASCII() string {
	if p == nil || len(p.Points) == 0 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	minX, maxX = minX-1, maxX+1
	minY, maxY = minY-1, maxY+1

	// two columns per cell keeps the plot roughly square
	width := (maxX - minX + 1) * 2
	height := maxY - minY + 1
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := (0 - minX) * 2
		for row := range canvas {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := maxY
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for pt := range p.Visits {
		canvas[maxY-pt.Y][(pt.X-minX)*2] = '•'
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
