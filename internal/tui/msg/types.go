package msg

import (
	"time"

	"github.com/quorix/quorix/internal/model"
)

// Mounted is implemented by messages addressed to one mounted dashboard.
type Mounted interface {
	MountID() uint64
}

// Scope ties a message to the dashboard mount that asked for it.
type Scope struct {
	Mount uint64
}

// MountID implements Mounted.
func (s Scope) MountID() uint64 { return s.Mount }

// TickMsg drives time-based UI updates: embed auto-advance and control
// hiding. It is scoped so a remounted dashboard never inherits the tick loop
// of the one it replaced.
type TickMsg struct {
	Scope
	Time time.Time
}

// FeedMsg carries one snapshot (or failure) from a feed source. Key names the
// list so a dashboard with several feeds of the same type can tell them apart.
type FeedMsg[T any] struct {
	Scope
	Key   string
	Items []T
	Err   error
}

// ActionMsg reports the outcome of a mutating request.
type ActionMsg struct {
	Scope
	Action string
	// Target is the id the action applied to, if any.
	Target string
	// Result carries a response payload, such as a synthesis summary.
	Result string
	Err    error
}

// EventMsg carries one event's metadata.
type EventMsg struct {
	Scope
	Event *model.Event
	Err   error
}

// AccessMsg carries the per-event roles used to gate the moderator view.
type AccessMsg struct {
	Scope
	Events *model.UserEvents
	Err    error
}

// QRMsg carries a rendered join code.
type QRMsg struct {
	Scope
	Art string
	Err error
}

// PingMsg carries the backend's liveness message.
type PingMsg struct {
	Scope
	Message string
	Err     error
}

// AuthMsg reports a login or registration attempt.
type AuthMsg struct {
	Scope
	Identity   *model.Identity
	Registered bool
	Err        error
}

// StateChangedMsg tells the root model that the client-wide store changed
// and the view must be resolved again.
type StateChangedMsg struct {
	EventType string
}

// NavigateMsg asks the root model to change route.
type NavigateMsg struct {
	Route string
}

// SessionChangedMsg reports that the saved session changed on disk.
type SessionChangedMsg struct {
	Removed bool
}
