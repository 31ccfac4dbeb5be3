// Package session owns the acting identity and its profile. It is the
// single writer of session state; every other component reads identity
// through it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
)

// ErrNotAuthenticated is returned by operations that require an acting
// identity when none is present.
var ErrNotAuthenticated = errors.New("not authenticated")

// TokenCache persists the session token between runs. The keyring-backed
// implementation lives in the credential package; tests use an in-memory
// one.
type TokenCache interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// Manager resolves sign-in, registration, sign-out, and profile updates
// against the configured backend, and publishes session events and
// navigation intents to its subscriber.
type Manager struct {
	backend backend.Backend
	tokens  TokenCache

	mu       sync.Mutex
	opGen    uint64
	doneGen  uint64
	identity *model.Identity
	profile  *model.Profile
	loading  bool
	lastErr  error

	events chan Event
}

// New creates a session manager over the given backend. tokens may be
// nil, in which case sessions do not survive restarts.
func New(b backend.Backend, tokens TokenCache) *Manager {
	return &Manager{
		backend: b,
		tokens:  tokens,
		events:  make(chan Event, 16),
	}
}

// Events yields session state changes and navigation intents.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Identity returns the current identity, or nil when unauthenticated.
func (m *Manager) Identity() *model.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	id := *m.identity
	return &id
}

// Profile returns the current profile, or nil while it is unresolved.
func (m *Manager) Profile() *model.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil
	}
	p := *m.profile
	return &p
}

// Role returns the resolved role, or nil while the profile is absent.
func (m *Manager) Role() *model.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil
	}
	r := m.profile.Role
	return &r
}

// Loading reports whether a session operation is still resolving.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the error flag from the last failed session operation.
// It is cleared by the next successful one.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// SignIn verifies credentials with the backend and establishes the
// session. The result is discarded if a newer sign-in or sign-out has
// already resolved.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	gen := m.begin()

	sess, err := m.backend.SignIn(ctx, email, password)
	if err != nil {
		m.fail(gen, err)
		return asAuthError(err, "sign-in failed")
	}

	m.cacheToken(sess.Token)
	identity, profile := m.resolveProfile(ctx, sess, email)
	m.commit(gen, identity, profile, landingRedirect(profile))
	return nil
}

// Register creates an account and establishes the session for it.
func (m *Manager) Register(ctx context.Context, reg backend.Registration) error {
	gen := m.begin()

	sess, err := m.backend.Register(ctx, reg)
	if err != nil {
		m.fail(gen, err)
		return asAuthError(err, "registration failed")
	}

	m.cacheToken(sess.Token)
	identity, profile := m.resolveProfile(ctx, sess, reg.Email)
	m.commit(gen, identity, profile, landingRedirect(profile))
	return nil
}

// Resume restores a previous session from the token cache. A missing or
// rejected token resolves to the unauthenticated state without error.
func (m *Manager) Resume(ctx context.Context) {
	gen := m.begin()

	token := ""
	if m.tokens != nil {
		token, _ = m.tokens.Get()
	}
	if token == "" {
		m.commit(gen, nil, nil, nil)
		return
	}

	sess, err := m.backend.Restore(ctx, token)
	if err != nil {
		if m.tokens != nil {
			_ = m.tokens.Delete()
		}
		m.commit(gen, nil, nil, nil)
		return
	}

	identity, profile := m.resolveProfile(ctx, sess, "")
	m.commit(gen, identity, profile, landingRedirect(profile))
}

// SignOut clears the session unconditionally and invalidates the remote
// session when one exists.
func (m *Manager) SignOut(ctx context.Context) {
	gen := m.begin()

	if err := m.backend.SignOut(ctx); err != nil {
		slog.Warn("backend sign-out failed", "error", err)
	}
	if m.tokens != nil {
		_ = m.tokens.Delete()
	}

	m.commit(gen, nil, nil, nil)
}

// UpdateProfile merges the patch into the current profile, persists it
// through the backend, and republishes the merged profile.
func (m *Manager) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.Profile, error) {
	m.mu.Lock()
	identity := m.identity
	m.mu.Unlock()
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	profile, err := m.backend.UpdateProfile(ctx, identity.ID, patch)
	if err != nil {
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		return nil, asAuthError(err, "profile update failed")
	}

	m.mu.Lock()
	// Only republish if the session has not been replaced meanwhile.
	if m.identity != nil && m.identity.ID == profile.ID {
		m.profile = profile
		m.lastErr = nil
	}
	m.mu.Unlock()

	m.emit(Event{Kind: EventProfileUpdated, Identity: identity, Profile: profile})
	p := *profile
	return &p, nil
}

// resolveProfile fetches the profile for a fresh session. A transient
// fetch failure keeps the identity established and sets the error flag
// instead of clearing the session.
func (m *Manager) resolveProfile(ctx context.Context, sess *backend.Session, email string) (*model.Identity, *model.Profile) {
	profile, err := m.backend.FetchProfile(ctx, sess.UserID)
	if err != nil {
		slog.Warn("profile fetch failed", "user_id", sess.UserID, "error", err)
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		return &model.Identity{ID: sess.UserID, Email: email}, nil
	}
	identity := profile.Identity()
	return &identity, profile
}

// begin registers a new session operation and returns its generation.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opGen++
	m.loading = true
	return m.opGen
}

// commit publishes the result of operation gen unless a newer operation
// has already resolved (last resolved operation wins).
func (m *Manager) commit(gen uint64, identity *model.Identity, profile *model.Profile, redirect *Redirect) {
	m.mu.Lock()
	if gen < m.doneGen {
		m.mu.Unlock()
		return
	}
	m.doneGen = gen
	m.identity = identity
	m.profile = profile
	if identity != nil {
		m.lastErr = nil
	}
	m.loading = m.opGen != gen
	m.mu.Unlock()

	if identity != nil {
		m.emit(Event{Kind: EventSignedIn, Identity: identity, Profile: profile, Redirect: redirect})
	} else {
		m.emit(Event{Kind: EventSignedOut})
	}
}

// fail records a failed operation without touching established state.
func (m *Manager) fail(gen uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen < m.doneGen {
		return
	}
	m.doneGen = gen
	m.lastErr = err
	m.loading = m.opGen != gen
}

func (m *Manager) cacheToken(token string) {
	if m.tokens == nil {
		return
	}
	if err := m.tokens.Set(token); err != nil {
		slog.Warn("caching session token failed", "error", err)
	}
}

// emit sends an event without blocking.
func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		// Drop if the subscriber is not keeping up.
	}
}

// asAuthError returns err as an AuthError, wrapping it with a
// display-safe message when the backend produced an untyped failure.
func asAuthError(err error, message string) error {
	if backend.IsAuthError(err) {
		return err
	}
	return &backend.AuthError{Message: message, Err: err}
}
