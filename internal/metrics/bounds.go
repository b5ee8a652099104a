package metrics

import (
	"github.com/san-kum/rowsim/internal/rowstate"
)

// Bounds is the fraction of observed panel states with every row inside its
// range.
type Bounds struct {
	name       string
	violations int
	samples    int
}

func NewBounds() *Bounds {
	return &Bounds{
		name: "bounds",
	}
}

func (b *Bounds) Name() string {
	return b.name
}

func (b *Bounds) Observe(tick int, states []rowstate.State) {
	for _, s := range states {
		b.samples++
		if !s.InBounds() {
			b.violations++
		}
	}
}

func (b *Bounds) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounds) Reset() {
	b.violations = 0
	b.samples = 0
}
