package autoplay

import (
	"fmt"
	"sync"
	"time"
)

const DefaultInterval = 500 * time.Millisecond

// FireFunc receives the generation of the task that fired. It is called on
// the scheduler's goroutine with no controller lock held.
type FireFunc func(gen uint64)

type Controller struct {
	mu       sync.Mutex
	sched    Scheduler
	fire     FireFunc
	interval time.Duration
	running  bool
	task     Task
	gen      uint64
	active   int
	peak     int
}

// New returns a stopped controller. A nil scheduler means TickerScheduler.
func New(sched Scheduler, interval time.Duration, fire FireFunc) *Controller {
	if sched == nil {
		sched = TickerScheduler{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Controller{
		sched:    sched,
		fire:     fire,
		interval: interval,
	}
}

// Toggle flips between stopped and running and reports the new state.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.stopLocked()
	} else {
		c.startLocked()
	}
	return c.running
}

func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		c.startLocked()
	}
}

func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.stopLocked()
	}
}

// SetInterval changes the period. A running task is replaced, never
// duplicated.
func (c *Controller) SetInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, d)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = d
	if c.running {
		c.stopLocked()
		c.startLocked()
	}
	return nil
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Current reports whether a fire tagged gen belongs to the live task.
func (c *Controller) Current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && gen == c.gen
}

// Active is the number of tasks started and not yet stopped.
func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Peak is the highest value Active has reached.
func (c *Controller) Peak() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peak
}

func (c *Controller) startLocked() {
	c.gen++
	gen := c.gen
	fire := c.fire
	c.task = c.sched.Every(c.interval, func() {
		if fire != nil {
			fire(gen)
		}
	})
	c.active++
	if c.active > c.peak {
		c.peak = c.active
	}
	c.running = true
}

func (c *Controller) stopLocked() {
	if c.task != nil {
		c.task.Stop()
		c.task = nil
		c.active--
	}
	c.gen++
	c.running = false
}
