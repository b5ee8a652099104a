package autoplay

import (
	"sync"
	"time"
)

// Task is a scheduled repeating callback.
type Task interface {
	Stop()
}

// Scheduler starts repeating tasks.
type Scheduler interface {
	Every(d time.Duration, fn func()) Task
}

// TickerScheduler runs each task on its own goroutine driven by a time.Ticker.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) loop(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

// Stop does not wait for an in-flight fn to return.
func (t *tickerTask) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
