package render

import (
	"image"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
)

// Raster is an anti-aliased RGBA surface.
type Raster struct {
	dc *gg.Context
}

func NewRaster(w, h int) *Raster {
	dc := gg.NewContext(w, h)
	dc.SetColor(White)
	dc.Clear()
	return &Raster{dc: dc}
}

func (r *Raster) Size() (int, int) {
	return r.dc.Width(), r.dc.Height()
}

func (r *Raster) Line(x1, y1, x2, y2 float64, stroke color.Color, weight float64) {
	if stroke == nil || weight <= 0 {
		return
	}
	r.dc.SetColor(stroke)
	r.dc.SetLineWidth(weight)
	r.dc.DrawLine(x1, y1, x2, y2)
	r.dc.Stroke()
}

func (r *Raster) Rect(x, y, w, h float64, fill, stroke color.Color, weight float64) {
	hasStroke := stroke != nil && weight > 0
	r.dc.DrawRectangle(x, y, w, h)
	if fill != nil {
		r.dc.SetColor(fill)
		if hasStroke {
			r.dc.FillPreserve()
		} else {
			r.dc.Fill()
		}
	}
	if hasStroke {
		r.dc.SetColor(stroke)
		r.dc.SetLineWidth(weight)
		r.dc.Stroke()
	}
	if fill == nil && !hasStroke {
		r.dc.ClearPath()
	}
}

func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

func (r *Raster) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}
