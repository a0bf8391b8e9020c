// Package msg provides command factory functions that create tea.Cmd values.
//
// These functions are pure factories that create commands returning message
// types defined in this package. They run one request each; periodic lists
// go through feed sources instead.

package msg

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/api"
	"github.com/quorix/quorix/internal/auth"
	"github.com/quorix/quorix/internal/qr"
)

// TickInterval is how often TickMsg fires while a dashboard wants ticks.
const TickInterval = 250 * time.Millisecond

// Tick returns a command that sends a TickMsg after TickInterval.
func Tick(scope Scope) tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Scope: scope, Time: t}
	})
}

// Navigate returns a command that asks the root model to change route.
func Navigate(route string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}

// Do runs fn and reports its outcome as an ActionMsg.
func Do(ctx context.Context, scope Scope, action, target string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(ctx)
		return ActionMsg{Scope: scope, Action: action, Target: target, Err: err}
	}
}

// Call is Do for requests that answer with a string payload.
func Call(ctx context.Context, scope Scope, action, target string, fn func(context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := fn(ctx)
		return ActionMsg{Scope: scope, Action: action, Target: target, Result: res, Err: err}
	}
}

// Fetch runs fn once and reports the list as a FeedMsg under key.
func Fetch[T any](ctx context.Context, scope Scope, key string, fn func(context.Context) ([]T, error)) tea.Cmd {
	return func() tea.Msg {
		items, err := fn(ctx)
		return FeedMsg[T]{Scope: scope, Key: key, Items: items, Err: err}
	}
}

// LoadEvent fetches one event's metadata.
func LoadEvent(ctx context.Context, scope Scope, c *api.Client, code string) tea.Cmd {
	return func() tea.Msg {
		ev, err := c.Event(ctx, code)
		return EventMsg{Scope: scope, Event: ev, Err: err}
	}
}

// LoadAccess fetches the per-event roles of userID.
func LoadAccess(ctx context.Context, scope Scope, c *api.Client, userID string) tea.Cmd {
	return func() tea.Msg {
		ue, err := c.UserEvents(ctx, userID)
		return AccessMsg{Scope: scope, Events: ue, Err: err}
	}
}

// LoadQR fetches and renders an event's join code.
func LoadQR(ctx context.Context, scope Scope, c *api.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		png, err := c.SessionQR(ctx, sessionID)
		if err != nil {
			return QRMsg{Scope: scope, Err: err}
		}
		art, err := qr.Render(png, qr.DefaultOptions)
		return QRMsg{Scope: scope, Art: art, Err: err}
	}
}

// Ping fetches the backend's liveness message.
func Ping(ctx context.Context, scope Scope, c *api.Client) tea.Cmd {
	return func() tea.Msg {
		m, err := c.Ping(ctx)
		return PingMsg{Scope: scope, Message: m, Err: err}
	}
}

// Login signs in through the auth manager, which also saves the session.
func Login(ctx context.Context, scope Scope, m *auth.Manager, email, sessionCode string) tea.Cmd {
	return func() tea.Msg {
		sess, err := m.Login(ctx, email, sessionCode, "")
		if err != nil {
			return AuthMsg{Scope: scope, Err: err}
		}
		id := sess.Identity()
		return AuthMsg{Scope: scope, Identity: &id}
	}
}

// Register creates an account.
func Register(ctx context.Context, scope Scope, m *auth.Manager, email, password string) tea.Cmd {
	return func() tea.Msg {
		err := m.Register(ctx, email, password)
		return AuthMsg{Scope: scope, Registered: err == nil, Err: err}
	}
}
