package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles derives the lipgloss styles the model renders with.
type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	cursor   lipgloss.Style
	muted    lipgloss.Style
	running  lipgloss.Style
	stopped  lipgloss.Style
	panel    lipgloss.Style
	help     lipgloss.Style
	rowNames [3]lipgloss.Style
}

func newStyles(t Theme) styles {
	s := styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:   lipgloss.NewStyle().Foreground(t.Muted),
		value:   lipgloss.NewStyle().Foreground(t.Text).Width(5).Align(lipgloss.Right),
		cursor:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Width(5).Align(lipgloss.Right).Underline(true),
		muted:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Match),
		stopped: lipgloss.NewStyle().Bold(true).Foreground(t.Diff),
		panel:   lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1),
		help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(1, 2),
	}
	for i, c := range t.Rows {
		s.rowNames[i] = lipgloss.NewStyle().Bold(true).Foreground(c).Width(4)
	}
	return s
}

// borderStyle tints a panel frame by whether all panels agree.
func (s styles) borderStyle(t Theme, match bool) lipgloss.Style {
	c := t.Diff
	if match {
		c = t.Match
	}
	return s.panel.BorderForeground(c)
}

// Slider renders value within [min, max] as a bar of width cells.
func Slider(value, min, max, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > min {
		filled = (value - min) * width / (max - min)
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline draws values as block characters, sampling to fit width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}
