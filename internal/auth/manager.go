package auth

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/logging"
	"github.com/quorix/quorix/internal/model"
)

// Backend is the part of the API client credentials flow through.
// *api.Client implements it.
type Backend interface {
	Login(ctx context.Context, email, sessionCode string) (*model.Identity, error)
	Register(ctx context.Context, email, password string) error
	Session(ctx context.Context) (*model.Identity, error)
	Cookies() []*http.Cookie
	SetCookies(cookies []*http.Cookie)
	SetToken(token string)
}

// Manager ties the session file to an API client.
type Manager struct {
	store   *Store
	backend Backend
	logger  *logging.Logger
}

// NewManager creates a Manager.
func NewManager(store *Store, backend Backend, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Manager{store: store, backend: backend, logger: logger}
}

// Store returns the underlying session store.
func (m *Manager) Store() *Store { return m.store }

// Restore loads the stored session into the client. An expired session is
// removed and reported as ErrNotAuthenticated.
func (m *Manager) Restore() (*Session, error) {
	sess, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.store.now()) {
		m.logger.Info("stored session expired", "user_id", sess.UserID)
		_ = m.store.Clear()
		return nil, errors.ErrNotAuthenticated
	}
	m.apply(sess)
	return sess, nil
}

// Login signs in with an email and an event session code and stores the
// resulting session. token is kept as the bearer token when non-empty.
func (m *Manager) Login(ctx context.Context, email, sessionCode, token string) (*Session, error) {
	email = strings.TrimSpace(email)
	sessionCode = strings.TrimSpace(sessionCode)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if sessionCode == "" {
		return nil, errors.NewValidationError("Session code is required").WithField("session_code")
	}

	if token != "" {
		m.backend.SetToken(token)
	}
	id, err := m.backend.Login(ctx, email, sessionCode)
	if err != nil {
		m.logger.Warn("login failed", "email", email, "error", err.Error())
		return nil, err
	}

	sess := NewSession(*id, token, m.backend.Cookies())
	if err := m.store.Save(sess); err != nil {
		return nil, err
	}
	m.logger.Info("logged in", "user_id", sess.UserID, "role", string(sess.Role))
	return sess, nil
}

// Register creates an account. It does not sign in.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return errors.NewValidationError("Email and password required").WithField("password")
	}
	if err := m.backend.Register(ctx, email, password); err != nil {
		m.logger.Warn("registration failed", "email", email, "error", err.Error())
		return err
	}
	return nil
}

// Logout forgets the stored session and the client's credentials.
func (m *Manager) Logout() error {
	m.backend.SetToken("")
	m.backend.SetCookies(expire(m.backend.Cookies()))
	return m.store.Clear()
}

// Refresh asks the backend who the stored session belongs to and updates
// the file. A 401 clears the session and returns ErrNotAuthenticated.
func (m *Manager) Refresh(ctx context.Context) (*Session, error) {
	sess, err := m.Restore()
	if err != nil {
		return nil, err
	}
	id, err := m.backend.Session(ctx)
	if err != nil {
		if errors.IsUnauthorized(err) {
			_ = m.store.Clear()
			return nil, errors.Join(errors.ErrNotAuthenticated, err)
		}
		return nil, err
	}
	sess.SetIdentity(*id)
	sess.SetCookies(m.backend.Cookies())
	if err := m.store.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *Manager) apply(sess *Session) {
	if sess.Token != "" {
		m.backend.SetToken(sess.Token)
	}
	if len(sess.Cookies) > 0 {
		m.backend.SetCookies(sess.HTTPCookies())
	}
}

func validateEmail(email string) error {
	if email == "" {
		return errors.NewValidationError("Email is required").WithField("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.NewValidationError("Invalid email address").WithField("email").WithCause(err)
	}
	return nil
}

func expire(cookies []*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: "", Path: "/", MaxAge: -1})
	}
	return out
}
