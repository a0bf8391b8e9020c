// Package poll implements the timed refresh loop every dashboard list is
// built on.
//
// A Poller fetches once immediately, then once per period, and hands each
// complete snapshot to OnData (or the failure to OnError) until Stop. A
// failure never ends the loop; the next tick simply tries again.
//
// Fetches may overlap when one is slower than the period. Every fetch is
// stamped with a generation number when issued, and a result older than the
// last one delivered is dropped, so a slow response can never overwrite a
// newer snapshot. Results that arrive after Stop are dropped too, and Stop
// does not return while a callback is running, so no update can reach a view
// after it has been torn down.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/quorix/quorix/internal/logging"
)

// Clock abstracts time so tests can drive tickers by hand.
type Clock interface {
	Now() time.Time
	// NewTicker returns a channel that receives once per period and a
	// function that stops it.
	NewTicker(d time.Duration) (<-chan time.Time, func())
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Config describes one polled endpoint.
type Config[T any] struct {
	// Fetch retrieves one snapshot. It must honour ctx cancellation.
	Fetch func(ctx context.Context) ([]T, error)
	// Period between fetches. Must be positive.
	Period time.Duration
	// OnData receives every delivered snapshot. It must not call Stop.
	OnData func([]T)
	// OnError receives every delivered failure. It must not call Stop.
	OnError func(error)
	// Clock defaults to RealClock.
	Clock Clock
	// Logger defaults to a no-op logger.
	Logger *logging.Logger
}

// Poller repeatedly invokes a fetch function on a fixed period.
type Poller[T any] struct {
	cfg Config[T]

	mu         sync.Mutex
	started    bool
	stopped    bool
	stopTicker func()
	ctx        context.Context
	cancel     context.CancelFunc
	issued     uint64
	delivered  uint64

	// deliver serializes callbacks with each other and with Stop.
	deliver sync.Mutex
	wg      conc.WaitGroup
}

// New creates a Poller. It does nothing until Start.
func New[T any](cfg Config[T]) *Poller[T] {
	if cfg.Clock == nil {
		cfg.Clock = RealClock
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger()
	}
	if cfg.OnData == nil {
		cfg.OnData = func([]T) {}
	}
	if cfg.OnError == nil {
		cfg.OnError = func(error) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller[T]{cfg: cfg, ctx: ctx, cancel: cancel}
}

// Start issues the first fetch and starts the ticker. Calling Start more
// than once, or after Stop, does nothing.
func (p *Poller[T]) Start() {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	ticks, stop := p.cfg.Clock.NewTicker(p.cfg.Period)
	p.stopTicker = stop
	p.mu.Unlock()

	p.cfg.Logger.Debug("poller started", "period_ms", p.cfg.Period.Milliseconds())
	p.issue()

	p.wg.Go(func() {
		for {
			select {
			case <-p.ctx.Done():
				return
			case <-ticks:
				p.issue()
			}
		}
	})
}

// Refresh issues one fetch outside the schedule, for example right after a
// mutation whose effect the view should show without waiting for the next
// tick. It does nothing unless the poller is running.
func (p *Poller[T]) Refresh() {
	p.issue()
}

// Stop stops the ticker exactly once and cancels in-flight fetches. It is
// safe to call any number of times. When Stop returns, no callback is
// running and none will run again.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	stop := p.stopTicker
	p.stopTicker = nil
	p.mu.Unlock()

	if stop != nil {
		stop()
	}
	p.cancel()

	// Wait out a callback that may have passed the stopped check.
	p.deliver.Lock()
	p.deliver.Unlock()
	p.cfg.Logger.Debug("poller stopped")
}

// Wait blocks until the ticker loop and every in-flight fetch have
// returned. It is meant for tests and orderly shutdown after Stop.
func (p *Poller[T]) Wait() {
	p.wg.Wait()
}

// Stopped reports whether Stop has been called.
func (p *Poller[T]) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

func (p *Poller[T]) issue() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.issued++
	gen := p.issued
	p.mu.Unlock()

	p.wg.Go(func() {
		data, err := p.cfg.Fetch(p.ctx)
		p.complete(gen, data, err)
	})
}

func (p *Poller[T]) complete(gen uint64, data []T, err error) {
	p.deliver.Lock()
	defer p.deliver.Unlock()

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if last := p.delivered; gen < last {
		p.mu.Unlock()
		p.cfg.Logger.Debug("dropped stale response", "generation", gen, "delivered", last)
		return
	}
	p.delivered = gen
	p.mu.Unlock()

	if err != nil {
		p.cfg.Logger.Failure("poll failed", err, "generation", gen)
		p.cfg.OnError(err)
		return
	}
	p.cfg.OnData(data)
}
