// Package auth keeps the signed-in user's credentials between runs.
//
// The backend identifies a client by a session cookie (and, for SSO
// deployments, a bearer token). Both are stored with the identity in
// <config dir>/session.json. A session is present when that file exists
// and its token, if it is a JWT, has not expired; opaque tokens are never
// treated as expired on the client.
package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/model"
)

// FileName is the session file inside the config directory.
const FileName = "session.json"

// Cookie is the persisted form of a backend cookie.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}

// Session is the stored credential set.
type Session struct {
	Token   string     `json:"token,omitempty"`
	UserID  string     `json:"user_id"`
	Email   string     `json:"email,omitempty"`
	Name    string     `json:"name,omitempty"`
	Role    model.Role `json:"role"`
	Cookies []Cookie   `json:"cookies,omitempty"`
	SavedAt time.Time  `json:"saved_at"`
}

// NewSession builds a session for identity.
func NewSession(id model.Identity, token string, cookies []*http.Cookie) *Session {
	s := &Session{Token: token}
	s.SetIdentity(id)
	s.SetCookies(cookies)
	return s
}

// Identity returns the stored principal.
func (s *Session) Identity() model.Identity {
	return model.Identity{UserID: s.UserID, Email: s.Email, Name: s.Name, Role: s.Role}
}

// SetIdentity overwrites the stored principal, keeping known fields the new
// identity leaves empty.
func (s *Session) SetIdentity(id model.Identity) {
	s.UserID = id.UserID
	if id.Email != "" {
		s.Email = id.Email
	}
	if id.Name != "" {
		s.Name = id.Name
	}
	s.Role = model.ParseRole(string(id.Role))
}

// SetCookies replaces the stored cookies.
func (s *Session) SetCookies(cookies []*http.Cookie) {
	s.Cookies = s.Cookies[:0]
	for _, c := range cookies {
		s.Cookies = append(s.Cookies, Cookie{
			Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain, Expires: c.Expires,
		})
	}
}

// HTTPCookies returns the cookies for an http.CookieJar.
func (s *Session) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, &http.Cookie{
			Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain, Expires: c.Expires,
		})
	}
	return out
}

// Expired reports whether the session's token is a JWT past its exp claim.
func (s *Session) Expired(now time.Time) bool {
	return TokenExpired(s.Token, now)
}

// TokenExpired inspects token without verifying its signature; the client
// has no key and the backend checks it anyway. Anything that is not a JWT
// with an exp claim never expires here.
func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

// Store reads and writes the session file.
type Store struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewStore returns a store for dir/session.json.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName), now: time.Now}
}

// Path returns the session file path.
func (s *Store) Path() string { return s.path }

// Load reads the stored session. It returns ErrNotAuthenticated when there
// is none.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", s.path, err)
	}
	if sess.UserID == "" && sess.Token == "" {
		return nil, errors.ErrNotAuthenticated
	}
	return &sess, nil
}

// Save writes sess atomically with owner-only permissions.
func (s *Store) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.SavedAt = s.now().UTC()
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return atomicWriteFile(s.path, data, 0o600)
}

// Clear removes the session file. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Present reports whether a usable session is stored.
func (s *Store) Present() bool {
	sess, err := s.Load()
	return err == nil && !sess.Expired(s.now())
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}
