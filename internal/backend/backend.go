package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mtran/volunteer-hub/internal/model"
)

// AuthError indicates that credential verification or registration failed.
// Its message is safe to display verbatim to the user.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Session is an authenticated backend session.
type Session struct {
	Token  string
	UserID string
}

// EventKind identifies a session state change pushed by the backend.
type EventKind string

const (
	EventSignedIn  EventKind = "signed-in"
	EventSignedOut EventKind = "signed-out"
)

// SessionEvent is a session state change. Session is nil for signed-out.
type SessionEvent struct {
	Kind    EventKind
	Session *Session
}

// Registration carries the data collected by the registration form.
type Registration struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Location string
	Skills   []string
}

// Record is a serialized entity as stored in a collection.
type Record = json.RawMessage

// Collection is the generic entity collection contract shared by the
// remote backend and the local fallback. Records are opaque JSON; the
// resource layer owns decoding and validation.
type Collection interface {
	// List returns every record in the collection. The second result is
	// false when the collection has never been written, which signals
	// the resource layer to run its seed step.
	List(ctx context.Context) ([]Record, bool, error)

	// Replace overwrites the whole collection. Used by the seed step.
	Replace(ctx context.Context, records []Record) error

	// Insert prepends a single record (newest-first ordering).
	Insert(ctx context.Context, rec Record) error

	// Update replaces the record with the given id in place.
	Update(ctx context.Context, id string, rec Record) error

	// Delete removes the record with the given id.
	Delete(ctx context.Context, id string) error
}

// Backend is the strategy interface selected once at construction:
// either the remote client or the local fallback. Everything above it
// is backend-agnostic.
type Backend interface {
	// SignIn verifies credentials and opens a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// Register creates an account and opens a session for it.
	Register(ctx context.Context, reg Registration) (*Session, error)

	// Restore revalidates a previously issued session token.
	Restore(ctx context.Context, token string) (*Session, error)

	// SignOut invalidates the current session.
	SignOut(ctx context.Context) error

	// SessionEvents yields backend-pushed session state changes.
	SessionEvents() <-chan SessionEvent

	// FetchProfile retrieves the profile for a user id.
	FetchProfile(ctx context.Context, userID string) (*model.Profile, error)

	// UpdateProfile applies a partial update and returns the merged profile.
	UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error)

	// Collection returns the entity collection stored under key.
	Collection(key string) Collection
}
