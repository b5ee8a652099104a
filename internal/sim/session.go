package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/rowsim/internal/autoplay"
	"github.com/san-kum/rowsim/internal/rowstate"
)

// Session owns the panel registry and the autoplay controller. Every
// mutation runs under the session mutex. Observers and metrics are called
// with that mutex held and must not call back into the session.
type Session struct {
	mu        sync.Mutex
	reg       *Registry
	ctrl      *autoplay.Controller
	observers []Observer
	metrics   []Metric
	ticks     int

	dmu      sync.RWMutex
	dispatch func(gen uint64)
}

type Option func(*options)

type options struct {
	sched     autoplay.Scheduler
	dispatch  func(gen uint64)
	observers []Observer
	metrics   []Metric
}

// WithScheduler replaces the real ticker, mostly for tests.
func WithScheduler(s autoplay.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// WithDispatcher routes autoplay fires somewhere other than HandleFire,
// for example onto a UI event loop which then calls HandleFire itself.
func WithDispatcher(fn func(gen uint64)) Option {
	return func(o *options) { o.dispatch = fn }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

func WithMetric(m Metric) Option {
	return func(o *options) { o.metrics = append(o.metrics, m) }
}

func NewSession(cfg Config, opts ...Option) *Session {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		reg:       NewRegistry(),
		observers: o.observers,
		metrics:   o.metrics,
	}
	for i, spec := range cfg.Panels {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("panel-%d", i)
		}
		s.reg.Add(NewPanel(name, spec.Init, spec.Coupling))
	}

	s.dispatch = s.fireDefault
	if o.dispatch != nil {
		s.dispatch = o.dispatch
	}
	s.ctrl = autoplay.New(o.sched, cfg.Interval, s.onFire)
	return s
}

func (s *Session) fireDefault(gen uint64) { s.HandleFire(gen) }

func (s *Session) onFire(gen uint64) {
	s.dmu.RLock()
	fn := s.dispatch
	s.dmu.RUnlock()
	fn(gen)
}

// SetDispatcher changes where autoplay fires are delivered. A nil fn
// restores HandleFire.
func (s *Session) SetDispatcher(fn func(gen uint64)) {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	if fn == nil {
		fn = s.fireDefault
	}
	s.dispatch = fn
}

func (s *Session) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Session) AddMetric(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m)
}

// TickAll advances every panel by one synchronized tick.
func (s *Session) TickAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

// HandleFire ticks once if gen still belongs to the live autoplay task and
// reports whether it did.
func (s *Session) HandleFire(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Current(gen) {
		log.Debug("dropped stale autoplay fire", "gen", gen)
		return false
	}
	s.tickLocked()
	return true
}

func (s *Session) tickLocked() {
	if s.reg.Len() == 0 {
		return
	}
	s.reg.TickAll()
	s.ticks++
	states := s.reg.States()
	for _, m := range s.metrics {
		m.Observe(s.ticks, states)
	}
	for _, o := range s.observers {
		o.OnTick(s.ticks, states)
	}
}

func (s *Session) ToggleAutoplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	running := s.ctrl.Toggle()
	log.Info("autoplay toggled", "running", running, "interval", s.ctrl.Interval())
	return running
}

// SetInterval sets the autoplay period in milliseconds.
func (s *Session) SetInterval(ms int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.SetInterval(time.Duration(ms) * time.Millisecond); err != nil {
		return err
	}
	log.Debug("autoplay interval changed", "ms", ms)
	return nil
}

func (s *Session) Autoplay() (running bool, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Running(), s.ctrl.Interval()
}

// ActiveTasks exposes the controller's live task count.
func (s *Session) ActiveTasks() int {
	return s.ctrl.Active()
}

func (s *Session) AllMatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.AllMatch()
}

func (s *Session) Mismatches() []PanelID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Mismatches()
}

func (s *Session) States() []rowstate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.States()
}

func (s *Session) Panels() []PanelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PanelInfo, 0, s.reg.Len())
	for _, p := range s.reg.panels {
		out = append(out, p.info())
	}
	return out
}

func (s *Session) Panel(id PanelID) (PanelInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.reg.Get(id)
	if err != nil {
		return PanelInfo{}, err
	}
	return p.info(), nil
}

func (s *Session) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// SetField parses row and field names and applies text to one panel. The
// bool is false when text holds no leading integer; the error is reserved
// for bad panel, row or field names.
func (s *Session) SetField(panel PanelID, row, field, text string) (bool, error) {
	r, err := rowstate.ParseRow(row)
	if err != nil {
		return false, err
	}
	f, err := rowstate.ParseField(field)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.reg.Get(panel)
	if err != nil {
		return false, err
	}
	return p.SetFieldText(r, f, text), nil
}

// Reset restores every panel's initial state and clears metrics. Autoplay
// keeps running if it was.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.reg.panels {
		p.Reset()
	}
	s.ticks = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Run performs steps synchronized ticks and records every state along the
// way, the initial one included.
func (s *Session) Run(ctx context.Context, steps int) (*Result, error) {
	return s.run(ctx, steps, 0)
}

// RunPaced is Run with one tick per period.
func (s *Session) RunPaced(ctx context.Context, steps int, period time.Duration) (*Result, error) {
	return s.run(ctx, steps, period)
}

func (s *Session) run(ctx context.Context, steps int, period time.Duration) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSteps, steps)
	}

	s.mu.Lock()
	for _, m := range s.metrics {
		m.Reset()
	}
	result := &Result{
		States:  make([][]rowstate.State, 0, steps+1),
		Matches: make([]bool, 0, steps+1),
		Metrics: make(map[string]float64),
	}
	for _, p := range s.reg.panels {
		result.Panels = append(result.Panels, p.name)
	}
	result.States = append(result.States, s.reg.States())
	result.Matches = append(result.Matches, s.reg.AllMatch())
	s.mu.Unlock()

	var pace <-chan time.Time
	if period > 0 {
		t := time.NewTicker(period)
		defer t.Stop()
		pace = t.C
	}

	for i := 0; i < steps; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				s.collect(result)
				return result, ctx.Err()
			case <-pace:
			}
		} else {
			select {
			case <-ctx.Done():
				s.collect(result)
				return result, ctx.Err()
			default:
			}
		}

		s.mu.Lock()
		s.tickLocked()
		result.States = append(result.States, s.reg.States())
		result.Matches = append(result.Matches, s.reg.AllMatch())
		s.mu.Unlock()
		result.Ticks++
	}

	s.collect(result)
	return result, nil
}

func (s *Session) collect(result *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Close stops autoplay.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Stop()
}
