package poll

import (
	"sync"

	"github.com/sourcegraph/conc"
)

// Runner is anything with a start/stop lifecycle: a Poller, a stream
// subscription, or another Group.
type Runner interface {
	Start()
	Stop()
}

// Group owns the runners of one mounted view and stops them together.
type Group struct {
	mu      sync.Mutex
	members []Runner
	started bool
	stopped bool
}

// Add registers runners. Runners added to a started group start at once;
// runners added to a stopped group are stopped at once.
func (g *Group) Add(rs ...Runner) {
	g.mu.Lock()
	started, stopped := g.started, g.stopped
	if !stopped {
		g.members = append(g.members, rs...)
	}
	g.mu.Unlock()

	for _, r := range rs {
		switch {
		case stopped:
			r.Stop()
		case started:
			r.Start()
		}
	}
}

// Start starts every member. Later calls do nothing.
func (g *Group) Start() {
	g.mu.Lock()
	if g.started || g.stopped {
		g.mu.Unlock()
		return
	}
	g.started = true
	members := append([]Runner(nil), g.members...)
	g.mu.Unlock()

	for _, r := range members {
		r.Start()
	}
}

// Stop stops every member exactly once, concurrently, and returns when all
// of them have stopped. Later calls do nothing.
func (g *Group) Stop() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	g.stopped = true
	members := g.members
	g.members = nil
	g.mu.Unlock()

	var wg conc.WaitGroup
	for _, r := range members {
		wg.Go(r.Stop)
	}
	wg.Wait()
}

// Len returns the number of live members.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}
