package engine

import (
	"sync"
	"time"
)

// tickLoop drives Tick once per interval on a goroutine owned by the match
// instance. No ambient global timer: each match runs its own loop and
// stopping one match never disturbs another.
type tickLoop struct {
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// StartTicker begins the per-second scheduler. Calling it twice is a no-op.
func (e *Engine) StartTicker(interval time.Duration) {
	e.mu.Lock()
	if e.loop != nil {
		e.mu.Unlock()
		return
	}
	loop := &tickLoop{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	e.loop = loop
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-loop.done:
				loop.ticker.Stop()
				return
			case <-loop.ticker.C:
				e.Tick()
			}
		}
	}()
}

// StopTicker halts the scheduler; safe to call more than once.
func (e *Engine) StopTicker() {
	e.mu.Lock()
	loop := e.loop
	e.mu.Unlock()
	if loop == nil {
		return
	}
	loop.stopOnce.Do(func() {
		close(loop.done)
	})
}
