package render

import (
	"image/color"

	"github.com/san-kum/rowsim/internal/rowstate"
)

// Surface is a drawing target. A nil fill or stroke means none.
type Surface interface {
	Size() (w, h int)
	Line(x1, y1, x2, y2 float64, stroke color.Color, weight float64)
	Rect(x, y, w, h float64, fill, stroke color.Color, weight float64)
}

// Draw paints the three rows of st.
func Draw(s Surface, st rowstate.State, l Layout) {
	for _, r := range rowstate.Rows {
		drawRow(s, st.Row(r), l.Y(r), l.RowColor[r], l)
	}
}

func drawRow(s Surface, t rowstate.Triple, y float64, c color.Color, l Layout) {
	s.Line(float64(l.Margin), y, float64(l.Width-l.Margin), y, Black, 1)

	outline := float64(l.Outline)
	centred(s, float64(l.Width)/2, y, outline, White, Black, 1)
	centred(s, l.X(t.Min), y, outline, White, Black, 1)
	centred(s, l.X(t.Max), y, outline, White, Black, 1)

	centred(s, l.X(t.Pos), y, float64(l.Square), c, nil, 0)
}

func centred(s Surface, cx, cy, size float64, fill, stroke color.Color, weight float64) {
	s.Rect(cx-size/2, cy-size/2, size, size, fill, stroke, weight)
}

// DrawBorder strokes the panel edge, inset by half the stroke weight so the
// whole stroke stays on the surface.
func DrawBorder(s Surface, match bool, l Layout) {
	w, h := s.Size()
	weight := float64(l.BorderWeight)
	off := weight / 2
	s.Rect(off, off, float64(w)-weight, float64(h)-weight, nil, l.BorderColor(match), weight)
}

// Frame draws a complete panel: background, rows and border.
func Frame(s Surface, st rowstate.State, match bool, l Layout) {
	w, h := s.Size()
	s.Rect(0, 0, float64(w), float64(h), White, nil, 0)
	Draw(s, st, l)
	DrawBorder(s, match, l)
}
