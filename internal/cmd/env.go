package cmd

import (
	"fmt"
	"net/http"

	"github.com/quorix/quorix/internal/api"
	"github.com/quorix/quorix/internal/auth"
	"github.com/quorix/quorix/internal/config"
	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/feed"
	"github.com/quorix/quorix/internal/logging"
	"github.com/quorix/quorix/internal/poll"
	"github.com/quorix/quorix/internal/state"
	"github.com/quorix/quorix/internal/tui/dashboard"
)

// env is what every command that talks to the backend needs.
type env struct {
	cfg     *config.Config
	logger  *logging.Logger
	client  *api.Client
	auth    *auth.Manager
	session *auth.Session
}

// loadEnv reads the configuration and builds the logger, the API client
// and the auth manager. A stored session is restored when one exists.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		l, err := logging.NewLogger(cfg.Logging.LogDir(), cfg.Logging.Level, logging.Options{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open log: %w", err)
		}
		logger = l
	}

	opts := []api.Option{
		api.WithTimeout(cfg.API.Timeout()),
		api.WithLogger(logger),
	}
	if cfg.API.RateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst))
	}
	if cfg.API.Token != "" {
		opts = append(opts, api.WithToken(cfg.API.Token))
	}
	client, err := api.New(cfg.API.URL, opts...)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		logger: logger,
		client: client,
		auth:   auth.NewManager(auth.NewStore(config.ConfigDir()), client, logger),
	}
	sess, err := e.auth.Restore()
	switch {
	case err == nil:
		e.session = sess
	case errors.Is(err, errors.ErrNotAuthenticated):
	default:
		logger.Warn("failed to restore session", "error", err.Error())
	}
	return e, nil
}

func (e *env) close() {
	_ = e.logger.Close()
}

// deps builds the dashboard dependencies for a store already positioned on
// the route to open.
func (e *env) deps(store *state.Store) dashboard.Deps {
	header := http.Header{}
	if token := e.cfg.API.Token; token != "" {
		header.Set("Authorization", "Bearer "+token)
	} else if e.session != nil && e.session.Token != "" {
		header.Set("Authorization", "Bearer "+e.session.Token)
	}
	for _, c := range e.client.Cookies() {
		header.Add("Cookie", c.Name+"="+c.Value)
	}

	return dashboard.Deps{
		Client: e.client,
		Auth:   e.auth,
		Store:  store,
		Feeds: feed.Factory{
			Transport: e.cfg.Feed.Transport,
			BaseURL:   e.cfg.API.URL,
			Reconnect: e.cfg.Feed.Reconnect(),
			Clock:     poll.RealClock,
			Logger:    e.logger,
			Header:    header,
		},
		Polling:    e.cfg.Polling,
		TimeFormat: e.cfg.TUI.TimeFormat,
		Logger:     e.logger,
	}
}

// newStore returns a store signed in with the restored session, if any.
func (e *env) newStore() *state.Store {
	store := state.New(nil, e.logger)
	if e.session != nil {
		store.Dispatch(state.SignIn{Identity: e.session.Identity()})
	}
	return store
}
