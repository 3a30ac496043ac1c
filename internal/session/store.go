// Package session holds the authenticated session: the bearer token and
// the moment it stops being valid.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/naveenspark/jotter/internal/storage"
	"github.com/naveenspark/jotter/pkg/client"
)

// Persisted storage keys.
const (
	KeyToken  = "token"
	KeyExpiry = "tokenExpiry"
)

// DefaultTTL is how long a token obtained by Login is trusted locally.
const DefaultTTL = time.Hour

const errLoginFailed = "Login failed. Please check your credentials."

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Store owns the session token. Its zero value is not usable; use New.
type Store struct {
	auth     Authenticator
	kv       storage.Store
	clock    clockwork.Clock
	ttl      time.Duration
	logger   *slog.Logger
	onChange func(token string)

	mu      sync.Mutex
	token   string
	loading bool
	err     string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// WithTokenListener registers fn to be called with the new token whenever
// it changes, including "" on logout.
func WithTokenListener(fn func(token string)) Option {
	return func(s *Store) { s.onChange = fn }
}

// New returns a logged-out Store.
func New(auth Authenticator, kv storage.Store, clock clockwork.Clock, opts ...Option) *Store {
	s := &Store{
		auth:   auth,
		kv:     kv,
		clock:  clock,
		ttl:    DefaultTTL,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize rehydrates the token from storage and drops it if it has
// expired. It never contacts the service.
func (s *Store) Initialize() {
	if !s.kv.Available() {
		return
	}
	// An expired pair is cleared before the token is read.
	s.CheckTokenExpiry()
	tok, err := s.kv.Get(KeyToken)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("read persisted token", "error", err)
	}
	s.setToken(tok)
}

// Login exchanges credentials for a token. On failure the error slot is
// set and any existing session is kept.
func (s *Store) Login(ctx context.Context, username, password string) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	tok, err := s.auth.Login(ctx, username, password)
	if err != nil {
		msg := client.ServerMessage(err)
		if msg == "" {
			msg = errLoginFailed
		}
		s.mu.Lock()
		s.err = msg
		s.mu.Unlock()
		s.logger.Warn("login failed", "username", username, "error", err)
		return
	}

	s.setToken(tok)
	if s.kv.Available() {
		expiry := s.clock.Now().Add(s.ttl)
		if err := s.kv.Set(KeyToken, tok); err != nil {
			s.logger.Warn("persist token", "error", err)
		}
		if err := s.kv.Set(KeyExpiry, expiry.UTC().Format(time.RFC3339Nano)); err != nil {
			s.logger.Warn("persist token expiry", "error", err)
		}
	}
	s.logger.Info("logged in", "username", username)
}

// Logout forgets the token in memory and in storage. Calling it while
// logged out is a no-op.
func (s *Store) Logout() {
	s.setToken("")
	if !s.kv.Available() {
		return
	}
	for _, key := range []string{KeyToken, KeyExpiry} {
		if err := s.kv.Remove(key); err != nil {
			s.logger.Warn("remove persisted session", "key", key, "error", err)
		}
	}
}

// CheckTokenExpiry logs out if the persisted expiry has passed. A missing
// or unreadable expiry leaves the session alone.
func (s *Store) CheckTokenExpiry() {
	expiry, ok := s.Expiry()
	if !ok {
		return
	}
	if !s.clock.Now().Before(expiry) {
		s.logger.Info("session expired", "expiry", expiry)
		s.Logout()
	}
}

// Expiry returns the persisted expiry, if any.
func (s *Store) Expiry() (time.Time, bool) {
	if !s.kv.Available() {
		return time.Time{}, false
	}
	raw, err := s.kv.Get(KeyExpiry)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		s.logger.Warn("unreadable token expiry", "value", raw, "error", err)
		return time.Time{}, false
	}
	return t, true
}

// Token returns the current token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Loading reports whether a Login is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the message from the last failed operation, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) setToken(tok string) {
	s.mu.Lock()
	changed := s.token != tok
	s.token = tok
	s.mu.Unlock()
	if changed && s.onChange != nil {
		s.onChange(tok)
	}
}
