package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// Vector writes drawing calls as SVG elements. Coordinates are rounded to
// whole pixels. Call Close to finish the document.
type Vector struct {
	canvas        *svg.SVG
	width, height int
}

func NewVector(w io.Writer, width, height int) *Vector {
	canvas := svg.New(w)
	canvas.Start(width, height)
	return &Vector{canvas: canvas, width: width, height: height}
}

func (v *Vector) Size() (int, int) { return v.width, v.height }

func (v *Vector) Line(x1, y1, x2, y2 float64, stroke color.Color, weight float64) {
	if stroke == nil || weight <= 0 {
		return
	}
	v.canvas.Line(px(x1), px(y1), px(x2), px(y2), strokeStyle(stroke, weight))
}

func (v *Vector) Rect(x, y, w, h float64, fill, stroke color.Color, weight float64) {
	style := "fill:none"
	if fill != nil {
		style = "fill:" + rgb(fill)
	}
	if stroke != nil && weight > 0 {
		style += ";" + strokeStyle(stroke, weight)
	}
	v.canvas.Rect(px(x), px(y), px(w), px(h), style)
}

func (v *Vector) Close() {
	v.canvas.End()
}

func px(f float64) int { return int(math.Round(f)) }

func rgb(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
}

func strokeStyle(c color.Color, weight float64) string {
	return fmt.Sprintf("stroke:%s;stroke-width:%g", rgb(c), weight)
}
