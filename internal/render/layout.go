package render

import (
	"image/color"

	"github.com/san-kum/rowsim/internal/rowstate"
)

var (
	Black  = color.RGBA{0, 0, 0, 255}
	White  = color.RGBA{255, 255, 255, 255}
	Red    = color.RGBA{255, 0, 0, 255}
	Green  = color.RGBA{0, 255, 0, 255}
	Blue   = color.RGBA{0, 0, 255, 255}
	Yellow = color.RGBA{255, 255, 0, 255}
)

type Layout struct {
	Width, Height int
	Increments    int
	Margin        int
	RowY          [3]int
	RowColor      [3]color.RGBA
	Square        int
	Outline       int
	BorderWeight  int
	MatchColor    color.RGBA
	DiffColor     color.RGBA
}

func DefaultLayout() Layout {
	return NewLayout(600, 400, 30)
}

// NewLayout places the three rows at quarter heights.
func NewLayout(width, height, increments int) Layout {
	return Layout{
		Width:        width,
		Height:       height,
		Increments:   increments,
		Margin:       50,
		RowY:         [3]int{height / 4, height / 2, height * 3 / 4},
		RowColor:     [3]color.RGBA{Red, Green, Blue},
		Square:       20,
		Outline:      24,
		BorderWeight: 8,
		MatchColor:   Green,
		DiffColor:    Yellow,
	}
}

// X maps a row value to a horizontal pixel position.
func (l Layout) X(v int) float64 {
	return float64(l.Width)/2 + float64(v*l.Increments)
}

func (l Layout) Y(r rowstate.Row) float64 {
	return float64(l.RowY[r])
}

func (l Layout) BorderColor(match bool) color.RGBA {
	if match {
		return l.MatchColor
	}
	return l.DiffColor
}
