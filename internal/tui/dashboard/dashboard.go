// Package dashboard implements the mounted views of the client: one
// Dashboard per view variant, built by New from a view.Resolution.
//
// A dashboard owns the feed sources of its lists through a poll.Group and a
// context for its one-off requests. Close stops both exactly once. Source
// callbacks run off the event loop, so they reach the dashboard through
// Deps.Send as messages scoped to the mount that created them.
package dashboard

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/api"
	"github.com/quorix/quorix/internal/auth"
	"github.com/quorix/quorix/internal/config"
	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/event"
	"github.com/quorix/quorix/internal/feed"
	"github.com/quorix/quorix/internal/logging"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/poll"
	"github.com/quorix/quorix/internal/state"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/util"
	"github.com/quorix/quorix/internal/view"
)

// Deps is what every dashboard is built from.
type Deps struct {
	Client     *api.Client
	Auth       *auth.Manager
	Store      *state.Store
	Feeds      feed.Factory
	Polling    config.PollingConfig
	TimeFormat string
	Logger     *logging.Logger
	// Now defaults to time.Now. Tests pass a fake clock's Now.
	Now func() time.Time
	// Send delivers a message to the running program. It must not block
	// on the event loop.
	Send func(tea.Msg)
}

// Dashboard is one mounted view.
type Dashboard interface {
	Init() tea.Cmd
	// Update handles a message and returns any follow-up command. Keys the
	// root model consumed never reach it.
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// Modes are the keymap modes active right now, most specific first.
	Modes() []keymap.Mode
	// Capturing reports whether a text field has focus, in which case the
	// root model passes every key through.
	Capturing() bool
	// Close stops every source and cancels in-flight requests. It is safe
	// to call more than once.
	Close()
}

// New builds the dashboard for res. mount identifies this mount in every
// message the dashboard produces.
func New(res view.Resolution, mount uint64, d Deps) Dashboard {
	b := newBase(res, mount, d)
	switch res.Variant {
	case view.Attendee:
		return newAttendee(b)
	case view.Moderator:
		return newModerator(b, false)
	case view.Organizer:
		return newOrganizer(b)
	case view.Speaker:
		return newSpeaker(b)
	case view.SpeakerEmbed:
		return newEmbed(b)
	case view.Audience:
		return newAudience(b)
	case view.Admin:
		return newAdmin(b)
	case view.EventLanding:
		return newEventLanding(b)
	default:
		return newLanding(b)
	}
}

// base carries what every dashboard shares.
type base struct {
	deps   Deps
	res    view.Resolution
	scope  tuimsg.Scope
	logger *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  *poll.Group
	once   sync.Once

	// unauthorized is terminal: polling is stopped and only the notice is
	// rendered.
	unauthorized bool
}

func newBase(res view.Resolution, mount uint64, d Deps) *base {
	if d.Logger == nil {
		d.Logger = logging.NopLogger()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Feeds.Logger == nil {
		d.Feeds.Logger = d.Logger
	}
	ctx, cancel := context.WithCancel(context.Background())
	logger := d.Logger.WithView(res.Variant.String())
	if res.SessionID != "" {
		logger = logger.WithSession(res.SessionID)
	}
	return &base{
		deps:   d,
		res:    res,
		scope:  tuimsg.Scope{Mount: mount},
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		group:  &poll.Group{},
	}
}

// Close stops the group and cancels the request context once.
func (b *base) Close() {
	b.once.Do(func() {
		b.cancel()
		b.group.Stop()
		b.logger.Debug("dashboard closed")
	})
}

func (b *base) now() time.Time { return b.deps.Now() }

func (b *base) send(m tea.Msg) {
	if b.deps.Send != nil {
		b.deps.Send(m)
	}
}

func (b *base) sessionID() string { return b.res.SessionID }

// identity returns the signed-in user, or nil.
func (b *base) identity() *model.Identity {
	if b.deps.Store == nil {
		return nil
	}
	return b.deps.Store.Snapshot().Identity
}

func (b *base) userID() string {
	if id := b.identity(); id != nil {
		return id.UserID
	}
	return ""
}

func (b *base) formatTime(t model.Timestamp) string {
	return util.FormatTime(t.Time, b.deps.TimeFormat, b.now())
}

// fail reports whether err is a 401, flipping the dashboard into its
// terminal unauthorized state when it is.
func (b *base) fail(endpoint string, err error) bool {
	if !errors.IsUnauthorized(err) {
		return false
	}
	if !b.unauthorized {
		b.unauthorized = true
		b.logger.Warn("unauthorized", "endpoint", endpoint)
		b.group.Stop()
		if b.deps.Store != nil {
			b.deps.Store.Bus().Publish(event.NewUnauthorizedEvent(b.res.Variant.String(), endpoint))
		}
	}
	return true
}

// watch subscribes to a list and registers its source with the group. Data
// and errors arrive as FeedMsg values keyed by key.
func watch[T any](b *base, key, path string, period time.Duration, fetch func(context.Context) ([]T, error)) feed.Source {
	src := feed.New(b.deps.Feeds, feed.Spec[T]{
		Path:   path,
		Fetch:  fetch,
		Period: period,
		OnData: func(items []T) {
			b.send(tuimsg.FeedMsg[T]{Scope: b.scope, Key: key, Items: items})
		},
		OnError: func(err error) {
			b.logger.Debug("feed error", "feed", key, "error", err.Error())
			b.send(tuimsg.FeedMsg[T]{Scope: b.scope, Key: key, Err: err})
		},
	})
	b.group.Add(src)
	return src
}

// keyFor looks msg up in modes, falling through to the global mode.
func keyFor(msg tea.KeyMsg, modes ...keymap.Mode) keymap.Command {
	cmd, _ := keymap.Default.Lookup(msg, modes...)
	return cmd
}

// actionError picks the inline text for a failed action.
func actionError(err error, fallback string) string {
	return errors.UserMessage(err, fallback)
}
