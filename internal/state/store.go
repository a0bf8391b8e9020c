// Package state holds the client-wide state every dashboard reads: who is
// signed in, the admin's role override and the current route.
//
// All changes go through Store.Dispatch. Each effective change is published
// on the event bus after the store's lock is released, so handlers may read
// the store (or dispatch again) freely.
package state

import (
	"sync"

	"github.com/quorix/quorix/internal/event"
	"github.com/quorix/quorix/internal/logging"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/view"
)

// Action is a request to change the store.
type Action interface {
	apply(s *snapshot) []event.Event
}

// SignIn replaces the identity.
type SignIn struct{ Identity model.Identity }

// SignOut clears the identity and any override.
type SignOut struct{}

// SetOverride switches the viewed role. It is ignored unless the identity is
// an admin. An empty Role clears the override.
type SetOverride struct{ Role model.Role }

// Navigate changes the current route.
type Navigate struct{ Route string }

// Snapshot is a copy of the store's state.
type Snapshot struct {
	Identity *model.Identity
	Override model.Role
	Route    string
}

type snapshot = Snapshot

// Store is the single owner of client-wide state.
type Store struct {
	mu     sync.RWMutex
	state  Snapshot
	bus    *event.Bus
	logger *logging.Logger
}

// New creates a store at route "/" with nobody signed in. A nil bus gets a
// private one.
func New(bus *event.Bus, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if bus == nil {
		bus = event.NewBus(logger)
	}
	return &Store{state: Snapshot{Route: "/"}, bus: bus, logger: logger}
}

// Bus returns the bus the store publishes on.
func (s *Store) Bus() *event.Bus { return s.bus }

// Dispatch applies a and publishes the resulting events.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	events := a.apply(&s.state)
	s.mu.Unlock()

	for _, e := range events {
		s.logger.Debug("state changed", "event", e.EventType())
		s.bus.Publish(e)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if out.Identity != nil {
		id := *out.Identity
		out.Identity = &id
	}
	return out
}

// Resolve runs the view resolver over the current state.
func (s *Store) Resolve() view.Resolution {
	snap := s.Snapshot()
	return view.Resolve(snap.Identity, snap.Route, snap.Override)
}

// Subscribe registers h for every state event and returns a function that
// removes it.
func (s *Store) Subscribe(h event.Handler) (unsubscribe func()) {
	id := s.bus.SubscribeAll(h)
	return func() { s.bus.Unsubscribe(id) }
}

func (a SignIn) apply(s *snapshot) []event.Event {
	prev := s.Identity
	if prev != nil && *prev == a.Identity {
		return nil
	}
	id := a.Identity
	s.Identity = &id

	events := []event.Event{event.NewIdentityChangedEvent(prev, &id)}
	if s.Override != model.RoleNone && id.Role != model.RoleAdmin {
		s.Override = model.RoleNone
		events = append(events, event.NewOverrideChangedEvent(model.RoleNone))
	}
	return events
}

func (SignOut) apply(s *snapshot) []event.Event {
	if s.Identity == nil {
		return nil
	}
	prev := s.Identity
	s.Identity = nil

	events := []event.Event{event.NewIdentityChangedEvent(prev, nil)}
	if s.Override != model.RoleNone {
		s.Override = model.RoleNone
		events = append(events, event.NewOverrideChangedEvent(model.RoleNone))
	}
	return events
}

func (a SetOverride) apply(s *snapshot) []event.Event {
	if s.Identity == nil || s.Identity.Role != model.RoleAdmin {
		return nil
	}
	role := a.Role
	if role == model.RoleAdmin {
		role = model.RoleNone
	}
	if role == s.Override {
		return nil
	}
	s.Override = role
	return []event.Event{event.NewOverrideChangedEvent(role)}
}

func (a Navigate) apply(s *snapshot) []event.Event {
	to := view.ParseRoute(a.Route)
	route := to.Path
	if q := to.Query.Encode(); q != "" {
		route += "?" + q
	}
	if route == s.Route {
		return nil
	}
	from := s.Route
	s.Route = route
	return []event.Event{event.NewRouteChangedEvent(from, route)}
}
