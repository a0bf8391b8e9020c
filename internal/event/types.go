package event

import (
	"time"

	"github.com/quorix/quorix/internal/model"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier such as
	// "identity.changed".
	EventType() string
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeIdentityChanged    = "identity.changed"
	TypeOverrideChanged    = "override.changed"
	TypeRouteChanged       = "route.changed"
	TypeSessionFileChanged = "session_file.changed"
	TypeUnauthorized       = "auth.unauthorized"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// IdentityChangedEvent is emitted when the signed-in identity changes,
// including sign-in (Previous nil) and sign-out (Current nil).
type IdentityChangedEvent struct {
	baseEvent
	Previous *model.Identity
	Current  *model.Identity
}

// NewIdentityChangedEvent creates an IdentityChangedEvent.
func NewIdentityChangedEvent(prev, cur *model.Identity) IdentityChangedEvent {
	return IdentityChangedEvent{baseEvent: newBaseEvent(TypeIdentityChanged), Previous: prev, Current: cur}
}

// SignedOut reports whether the change is a sign-out.
func (e IdentityChangedEvent) SignedOut() bool { return e.Previous != nil && e.Current == nil }

// OverrideChangedEvent is emitted when an admin switches the viewed role.
// Role is empty when the override is cleared.
type OverrideChangedEvent struct {
	baseEvent
	Role model.Role
}

// NewOverrideChangedEvent creates an OverrideChangedEvent.
func NewOverrideChangedEvent(role model.Role) OverrideChangedEvent {
	return OverrideChangedEvent{baseEvent: newBaseEvent(TypeOverrideChanged), Role: role}
}

// RouteChangedEvent is emitted when the client navigates.
type RouteChangedEvent struct {
	baseEvent
	From string
	To   string
}

// NewRouteChangedEvent creates a RouteChangedEvent.
func NewRouteChangedEvent(from, to string) RouteChangedEvent {
	return RouteChangedEvent{baseEvent: newBaseEvent(TypeRouteChanged), From: from, To: to}
}

// SessionFileChangedEvent is emitted when the stored credentials change on
// disk, for example after `quorix login` in another terminal.
type SessionFileChangedEvent struct {
	baseEvent
	Path    string
	Removed bool
}

// NewSessionFileChangedEvent creates a SessionFileChangedEvent.
func NewSessionFileChangedEvent(path string, removed bool) SessionFileChangedEvent {
	return SessionFileChangedEvent{baseEvent: newBaseEvent(TypeSessionFileChanged), Path: path, Removed: removed}
}

// UnauthorizedEvent is emitted when a dashboard receives a 401.
type UnauthorizedEvent struct {
	baseEvent
	View     string
	Endpoint string
}

// NewUnauthorizedEvent creates an UnauthorizedEvent.
func NewUnauthorizedEvent(view, endpoint string) UnauthorizedEvent {
	return UnauthorizedEvent{baseEvent: newBaseEvent(TypeUnauthorized), View: view, Endpoint: endpoint}
}
