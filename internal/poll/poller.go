// Package poll provides the recurring refresh loop behind the dashboard
// and log views.
package poll

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// DefaultInterval is the log/dashboard refresh cadence.
	DefaultInterval = 5 * time.Second
	// ActionSettle is how long to wait after a lifecycle action before
	// refetching stats, giving the panel time to register the change.
	ActionSettle = 2 * time.Second
	// CommandSettle is the shorter wait after a console command before
	// the log view refreshes.
	CommandSettle = time.Second
)

// Poller invokes a refresh function at a fixed interval. The first call
// runs immediately. Ticks are serialized: a slow refresh delays the next
// tick rather than running alongside it, so at most one refresh is ever in
// flight. A failing tick is logged and the loop keeps running.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a stopped Poller. A non-positive interval falls back to
// DefaultInterval.
func New(interval time.Duration, refresh func(context.Context) error) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{interval: interval, refresh: refresh}
}

// Start launches the loop and returns immediately. Starting a running
// poller is a no-op. The loop ends when Stop is called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.run(ctx, done)
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		if err := p.refresh(ctx); err != nil && ctx.Err() == nil {
			log.Printf("poll: refresh failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels the loop and waits for any in-flight refresh to return.
// After Stop no further ticks run; the refresh function sees a cancelled
// context and must not publish late results. Stopping an idle poller is
// a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is live. A poller whose context was
// cancelled externally counts as stopped even before Stop is called.
func (p *Poller) Running() bool {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
