package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/rowsim/internal/render"
)

// Braille cells hold a 2x4 dot grid:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a monochrome dot grid of Width x Height terminal cells.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots reports the canvas size in dots.
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set turns on the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) FillRect(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y)
		}
	}
}

func (c *Canvas) StrokeRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// Surface maps a logical width x height drawing area onto the canvas
// dots. Strokes become outlines and an unstroked fill becomes solid dots;
// white fills are background and leave the dots untouched.
type Surface struct {
	canvas        *Canvas
	width, height int
	sx, sy        float64
}

var _ render.Surface = (*Surface)(nil)

func NewSurface(c *Canvas, width, height int) *Surface {
	dw, dh := c.Dots()
	return &Surface{
		canvas: c,
		width:  width,
		height: height,
		sx:     float64(dw) / float64(width),
		sy:     float64(dh) / float64(height),
	}
}

func (s *Surface) Size() (int, int) { return s.width, s.height }

func (s *Surface) Line(x1, y1, x2, y2 float64, stroke color.Color, weight float64) {
	if stroke == nil || weight <= 0 {
		return
	}
	s.canvas.DrawLine(s.dx(x1), s.dy(y1), s.dx(x2), s.dy(y2))
}

func (s *Surface) Rect(x, y, w, h float64, fill, stroke color.Color, weight float64) {
	x0, y0 := s.dx(x), s.dy(y)
	x1, y1 := s.dx(x+w), s.dy(y+h)
	if x1 > x0 {
		x1--
	}
	if y1 > y0 {
		y1--
	}
	switch {
	case stroke != nil && weight > 0:
		s.canvas.StrokeRect(x0, y0, x1, y1)
	case fill != nil && !isWhite(fill):
		s.canvas.FillRect(x0, y0, x1, y1)
	}
}

func (s *Surface) dx(v float64) int { return int(math.Round(v * s.sx)) }
func (s *Surface) dy(v float64) int { return int(math.Round(v * s.sy)) }

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
