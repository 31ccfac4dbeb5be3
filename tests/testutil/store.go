package testutil

import (
	"context"
	"testing"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/backend/local"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/session"
	"github.com/mtran/volunteer-hub/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewLocalBackend creates a local-fallback backend over a fresh
// in-memory store.
func NewLocalBackend(t *testing.T) *local.Backend {
	t.Helper()

	b, err := local.New(NewTestStore(t))
	if err != nil {
		t.Fatalf("creating local backend: %v", err)
	}
	return b
}

// MemoryTokenCache is an in-memory session.TokenCache for tests.
type MemoryTokenCache struct {
	token string
}

func (c *MemoryTokenCache) Get() (string, error) { return c.token, nil }

func (c *MemoryTokenCache) Set(token string) error {
	c.token = token
	return nil
}

func (c *MemoryTokenCache) Delete() error {
	c.token = ""
	return nil
}

// NewSession creates a session manager over a fresh local backend with
// an in-memory token cache.
func NewSession(t *testing.T) (*session.Manager, *local.Backend) {
	t.Helper()

	b := NewLocalBackend(t)
	return session.New(b, &MemoryTokenCache{}), b
}

// SignedInSession creates a session manager already signed in as email.
// The synthesized identity's role follows the email (an address
// containing "admin" resolves to the admin role, "organizer" to
// organizer, anything else to volunteer).
func SignedInSession(t *testing.T, email string) (*session.Manager, backend.Backend) {
	t.Helper()

	mgr, b := NewSession(t)
	if err := mgr.SignIn(context.Background(), email, "any-password"); err != nil {
		t.Fatalf("signing in as %s: %v", email, err)
	}
	return mgr, b
}

// Actor returns an actor func pinned to a fixed identity, independent
// of any session manager.
func Actor(id string, role model.Role) func() *model.Identity {
	identity := &model.Identity{ID: id, Email: id + "@example.org", Role: role}
	return func() *model.Identity { return identity }
}

// NoActor returns an actor func that always reports no acting identity.
func NoActor() func() *model.Identity {
	return func() *model.Identity { return nil }
}
