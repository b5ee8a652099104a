package render

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/rowsim/internal/rowstate"
)

var ErrNoFrames = errors.New("render: no frames")

type GIFOptions struct {
	// Delay between frames in hundredths of a second.
	Delay int
	// Scale resizes every frame; 0 or 1 keeps the layout size.
	Scale float64
	// Progress is called after each frame is encoded.
	Progress func(done, total int)
}

// EncodeGIF renders one frame per state and writes a looping GIF.
func EncodeGIF(w io.Writer, states []rowstate.State, matches []bool, l Layout, opts GIFOptions) error {
	if len(states) == 0 {
		return ErrNoFrames
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = 50
	}

	width, height := l.Width, l.Height
	if opts.Scale > 0 && opts.Scale != 1 {
		width = int(float64(width) * opts.Scale)
		height = int(float64(height) * opts.Scale)
	}
	bounds := image.Rect(0, 0, width, height)

	anim := &gif.GIF{}
	for i, st := range states {
		match := i < len(matches) && matches[i]
		r := NewRaster(l.Width, l.Height)
		Frame(r, st, match, l)

		src := r.Image()
		if width != l.Width || height != l.Height {
			scaled := image.NewRGBA(bounds)
			xdraw.CatmullRom.Scale(scaled, bounds, src, src.Bounds(), xdraw.Src, nil)
			src = scaled
		}

		frame := image.NewPaletted(bounds, palette.WebSafe)
		xdraw.FloydSteinberg.Draw(frame, bounds, src, image.Point{})
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)

		if opts.Progress != nil {
			opts.Progress(i+1, len(states))
		}
	}
	return gif.EncodeAll(w, anim)
}
