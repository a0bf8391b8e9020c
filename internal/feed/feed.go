// Package feed is the subscription abstraction dashboards are written
// against. A Source delivers successive list snapshots to OnData and
// failures to OnError; whether it polls REST or holds a websocket open is a
// configuration choice the views never see.
package feed

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quorix/quorix/internal/config"
	"github.com/quorix/quorix/internal/logging"
	"github.com/quorix/quorix/internal/poll"
	"github.com/quorix/quorix/internal/stream"
)

// Source is a running subscription. Both *poll.Poller and *stream.Source
// satisfy it.
type Source interface {
	Start()
	Stop()
	// Refresh asks for one snapshot outside the schedule.
	Refresh()
}

// Factory holds what every source built for one view has in common.
type Factory struct {
	Transport string
	BaseURL   string
	Reconnect time.Duration
	Clock     poll.Clock
	Logger    *logging.Logger
	Dialer    *websocket.Dialer
	Header    http.Header
}

// Spec describes one subscribed list.
type Spec[T any] struct {
	// Path is the REST path of the list; streams derive their socket from it.
	Path    string
	Fetch   func(ctx context.Context) ([]T, error)
	Period  time.Duration
	OnData  func([]T)
	OnError func(error)
}

// New builds a Source from a feed Spec. A stream is used only when the
// factory asks for one and the Spec names a path; anything else polls.
func New[T any](f Factory, spec Spec[T]) Source {
	logger := f.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithEndpoint(spec.Path)

	if f.Transport == config.TransportStream && spec.Path != "" {
		s, err := stream.New(stream.Config[T]{
			BaseURL:   f.BaseURL,
			Path:      spec.Path,
			Fetch:     spec.Fetch,
			OnData:    spec.OnData,
			OnError:   spec.OnError,
			Reconnect: f.Reconnect,
			Dialer:    f.Dialer,
			Header:    f.Header,
			Logger:    logger,
		})
		if err == nil {
			return s
		}
		logger.Warn("falling back to polling", "error", err.Error())
	}

	return poll.New(poll.Config[T]{
		Fetch:   spec.Fetch,
		Period:  spec.Period,
		OnData:  spec.OnData,
		OnError: spec.OnError,
		Clock:   f.Clock,
		Logger:  logger,
	})
}
