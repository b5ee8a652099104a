package viz

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rowsim/internal/render"
	"github.com/san-kum/rowsim/internal/rowstate"
	"github.com/san-kum/rowsim/internal/sim"
)

const (
	canvasWidth   = 40
	canvasHeight  = 10
	historyLength = 120
	sliderWidth   = 24
)

// AutoplayMsg carries one autoplay fire into the event loop.
type AutoplayMsg struct {
	Gen uint64
}

type snapshotMsg struct {
	path string
	err  error
}

type Options struct {
	Theme       string
	MinMS       int
	MaxMS       int
	StepMS      int
	SnapshotDir string
	Layout      render.Layout
}

func (o Options) withDefaults() Options {
	if o.MinMS <= 0 {
		o.MinMS = 100
	}
	if o.MaxMS <= 0 {
		o.MaxMS = 2000
	}
	if o.StepMS <= 0 {
		o.StepMS = 50
	}
	if o.SnapshotDir == "" {
		o.SnapshotDir = "."
	}
	if o.Layout.Width == 0 {
		o.Layout = render.DefaultLayout()
	}
	return o
}

// Model is the interactive panel view. Field edits apply on every
// keystroke, the same way the panel inputs do in a browser.
type Model struct {
	session *sim.Session
	opts    Options
	keys    KeyMap
	help    help.Model
	input   textinput.Model
	theme   int
	styles  styles

	panel      int
	row        rowstate.Row
	field      rowstate.Field
	editing    bool
	showHelp   bool
	intervalMS int
	history    [][3][]float64
	status     string
}

func NewModel(s *sim.Session, opts Options) Model {
	opts = opts.withDefaults()

	in := textinput.New()
	in.Placeholder = "value"
	in.CharLimit = 12
	in.Width = 6

	_, interval := s.Autoplay()
	theme := themeIndex(opts.Theme)
	m := Model{
		session:    s,
		opts:       opts,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		input:      in,
		theme:      theme,
		styles:     newStyles(Themes[theme]),
		row:        rowstate.Top,
		field:      rowstate.Pos,
		intervalMS: int(interval.Milliseconds()),
	}
	m.record()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case AutoplayMsg:
		if m.session.HandleFire(msg.Gen) {
			m.record()
		}
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			log.Warn("snapshot failed", "err", msg.err)
			m.status = "snapshot failed: " + msg.err.Error()
		} else {
			m.status = "saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.history)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keys.Tick):
		m.session.TickAll()
		m.record()

	case key.Matches(msg, m.keys.Autoplay):
		if m.session.ToggleAutoplay() {
			m.status = "autoplay on"
		} else {
			m.status = "autoplay off"
		}

	case key.Matches(msg, m.keys.Slower):
		m.setInterval(m.intervalMS + m.opts.StepMS)

	case key.Matches(msg, m.keys.Faster):
		m.setInterval(m.intervalMS - m.opts.StepMS)

	case key.Matches(msg, m.keys.NextPanel):
		if n > 0 {
			m.panel = (m.panel + 1) % n
		}

	case key.Matches(msg, m.keys.Up):
		m.row = (m.row + 2) % 3
	case key.Matches(msg, m.keys.Down):
		m.row = (m.row + 1) % 3
	case key.Matches(msg, m.keys.Left):
		m.field = (m.field + 2) % 3
	case key.Matches(msg, m.keys.Right):
		m.field = (m.field + 1) % 3

	case key.Matches(msg, m.keys.Edit):
		info, err := m.session.Panel(sim.PanelID(m.panel))
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.editing = true
		m.input.SetValue(strconv.Itoa(info.State.Get(m.row, m.field)))
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.history = nil
		m.record()
		m.status = "reset"

	case key.Matches(msg, m.keys.Snapshot):
		return m, m.snapshot()

	case key.Matches(msg, m.keys.Theme):
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
		m.status = "theme " + Themes[m.theme].Name
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Done) || key.Matches(msg, m.keys.Cancel) {
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	ok, err := m.session.SetField(sim.PanelID(m.panel), m.row.String(), m.field.String(), m.input.Value())
	switch {
	case err != nil:
		m.status = err.Error()
	case !ok:
		m.status = "not a number, value kept"
	default:
		m.status = ""
		m.refreshLatest()
	}
	return m, cmd
}

func (m *Model) setInterval(ms int) {
	ms = max(m.opts.MinMS, min(m.opts.MaxMS, ms))
	if ms == m.intervalMS {
		return
	}
	if err := m.session.SetInterval(ms); err != nil {
		m.status = err.Error()
		return
	}
	m.intervalMS = ms
}

// record appends every panel's positions to the chart history.
func (m *Model) record() {
	states := m.session.States()
	for len(m.history) < len(states) {
		m.history = append(m.history, [3][]float64{})
	}
	for i, st := range states {
		for _, r := range rowstate.Rows {
			h := append(m.history[i][r], float64(st.Row(r).Pos))
			if len(h) > historyLength {
				h = h[len(h)-historyLength:]
			}
			m.history[i][r] = h
		}
	}
}

// refreshLatest rewrites the newest history point after an edit so the
// chart does not grow without a tick.
func (m *Model) refreshLatest() {
	states := m.session.States()
	for i, st := range states {
		if i >= len(m.history) {
			break
		}
		for _, r := range rowstate.Rows {
			if h := m.history[i][r]; len(h) > 0 {
				h[len(h)-1] = float64(st.Row(r).Pos)
			}
		}
	}
}

func (m Model) snapshot() tea.Cmd {
	info, err := m.session.Panel(sim.PanelID(m.panel))
	match := m.session.AllMatch()
	ticks := m.session.Ticks()
	dir := m.opts.SnapshotDir
	l := m.opts.Layout

	return func() tea.Msg {
		if err != nil {
			return snapshotMsg{err: err}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return snapshotMsg{err: err}
		}
		r := render.NewRaster(l.Width, l.Height)
		render.Frame(r, info.State, match, l)
		path := filepath.Join(dir, fmt.Sprintf("%s-%04d.png", info.Name, ticks))
		return snapshotMsg{path: path, err: r.SavePNG(path)}
	}
}

func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	theme := Themes[m.theme]
	match := m.session.AllMatch()
	panels := m.session.Panels()

	boxes := make([]string, 0, len(panels))
	for i, p := range panels {
		boxes = append(boxes, m.panelView(i, p, theme, match))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(match),
		lipgloss.JoinHorizontal(lipgloss.Top, boxes...),
		m.chartView(panels),
		m.statusView(),
		m.help.View(m.keys),
	)
}

func (m Model) headerView(match bool) string {
	agree := m.styles.running.Render("panels agree")
	if !match {
		ids := m.session.Mismatches()
		agree = m.styles.stopped.Render(fmt.Sprintf("panels differ (%d)", len(ids)))
	}
	title := m.styles.title.Render("ROWSIM")
	return fmt.Sprintf("%s  tick %d  %s", title, m.session.Ticks(), agree)
}

func (m Model) panelView(i int, p sim.PanelInfo, theme Theme, match bool) string {
	c := NewCanvas(canvasWidth, canvasHeight)
	render.Draw(NewSurface(c, m.opts.Layout.Width, m.opts.Layout.Height), p.State, m.opts.Layout)

	name := p.Name
	if i == m.panel {
		name = "▸ " + name
	}
	title := m.styles.title.Render(name)
	if !p.Coupling.ClampTop {
		title += " " + m.styles.muted.Render("(unclamped top)")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.canvasView(c),
		m.fieldGrid(i, p.State),
	)
	return m.styles.borderStyle(theme, match).Render(body)
}

// canvasView colours each line of dots after the row drawn nearest to it.
func (m Model) canvasView(c *Canvas) string {
	l := m.opts.Layout
	lines := strings.Split(c.String(), "\n")
	for i, line := range lines {
		y := (float64(i) + 0.5) * float64(l.Height) / float64(c.Height)
		nearest, best := rowstate.Top, math.Inf(1)
		for _, r := range rowstate.Rows {
			if d := math.Abs(l.Y(r) - y); d < best {
				nearest, best = r, d
			}
		}
		lines[i] = lipgloss.NewStyle().Foreground(Themes[m.theme].Rows[nearest]).Render(line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) fieldGrid(i int, st rowstate.State) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", 4))
	for _, f := range rowstate.Fields {
		b.WriteString(m.styles.label.Width(6).Align(lipgloss.Right).Render(f.String()))
	}
	for _, r := range rowstate.Rows {
		b.WriteByte('\n')
		b.WriteString(m.styles.rowNames[r].Render(r.String()))
		for _, f := range rowstate.Fields {
			b.WriteByte(' ')
			focused := i == m.panel && r == m.row && f == m.field
			switch {
			case focused && m.editing:
				b.WriteString(m.input.View())
			case focused:
				b.WriteString(m.styles.cursor.Render(strconv.Itoa(st.Get(r, f))))
			default:
				b.WriteString(m.styles.value.Render(strconv.Itoa(st.Get(r, f))))
			}
		}
	}
	return b.String()
}

func (m Model) chartView(panels []sim.PanelInfo) string {
	if m.panel >= len(m.history) || m.panel >= len(panels) {
		return ""
	}
	series := m.history[m.panel]
	if len(series[rowstate.Top]) < 2 {
		return m.styles.muted.Render("tick to start the position chart")
	}
	return asciigraph.PlotMany(
		[][]float64{series[rowstate.Top], series[rowstate.Mid], series[rowstate.Btm]},
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
		asciigraph.Caption(panels[m.panel].Name+" positions"),
	)
}

func (m Model) statusView() string {
	running, _ := m.session.Autoplay()
	state := m.styles.stopped.Render("■ stopped")
	if running {
		state = m.styles.running.Render("▶ playing")
	}
	slider := fmt.Sprintf("%s %d %s %d  %dms",
		m.styles.label.Render("interval"),
		m.opts.MinMS,
		Slider(m.intervalMS, m.opts.MinMS, m.opts.MaxMS, sliderWidth),
		m.opts.MaxMS,
		m.intervalMS,
	)
	line := state + "  " + slider
	if m.status != "" {
		line += "  " + m.styles.muted.Render(m.status)
	}
	return line
}

func (m Model) helpView() string {
	lines := []string{
		m.styles.title.Render("ROWSIM"),
		"",
		"Each panel holds three rows. A tick moves top by the sign of mid,",
		"mid by the sign of btm, and btm against the sign of the new top.",
		"Borders turn green when every panel shows the same values.",
		"",
		m.help.View(m.keys),
	}
	return m.styles.help.Render(strings.Join(lines, "\n"))
}

// Run drives s in a full-screen program until the user quits. Autoplay
// fires are routed through the event loop.
func Run(s *sim.Session, opts Options) error {
	p := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen())
	s.SetDispatcher(func(gen uint64) {
		p.Send(AutoplayMsg{Gen: gen})
	})
	defer s.SetDispatcher(nil)

	_, err := p.Run()
	return err
}
