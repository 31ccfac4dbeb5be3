// Package remote implements the backend contract against the hosted
// backend's REST API. Only the contract shape is fixed here; the
// server owns verification, storage, and filtering.
package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
)

// Backend is the remote implementation of backend.Backend.
type Backend struct {
	client *client
	events chan backend.SessionEvent
}

// New creates a remote backend client for the given base URL and API key.
func New(baseURL, anonKey string) *Backend {
	return &Backend{
		client: newClient(baseURL, anonKey),
		events: make(chan backend.SessionEvent, 16),
	}
}

// tokenResponse is the payload returned by the token and signup endpoints.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID string `json:"id"`
	} `json:"user"`
}

// SignIn exchanges credentials for a session token.
func (b *Backend) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	var resp tokenResponse
	err := b.client.post(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return b.openSession(resp)
}

// Register creates an account and opens a session. Registration metadata
// travels with the signup call for later profile provisioning.
func (b *Backend) Register(ctx context.Context, reg backend.Registration) (*backend.Session, error) {
	var resp tokenResponse
	err := b.client.post(ctx, "/auth/v1/signup", map[string]interface{}{
		"email":    reg.Email,
		"password": reg.Password,
		"data": map[string]interface{}{
			"name":     reg.Name,
			"phone":    reg.Phone,
			"location": reg.Location,
			"skills":   reg.Skills,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return b.openSession(resp)
}

// Restore revalidates a stored token against the server.
func (b *Backend) Restore(ctx context.Context, token string) (*backend.Session, error) {
	b.client.setToken(token)

	var user struct {
		ID string `json:"id"`
	}
	if err := b.client.get(ctx, "/auth/v1/user", &user); err != nil {
		b.client.setToken("")
		return nil, err
	}

	sess := &backend.Session{Token: token, UserID: user.ID}
	b.emit(backend.SessionEvent{Kind: backend.EventSignedIn, Session: sess})
	return sess, nil
}

// SignOut invalidates the remote session.
func (b *Backend) SignOut(ctx context.Context) error {
	err := b.client.post(ctx, "/auth/v1/logout", nil, nil)
	b.client.setToken("")
	b.emit(backend.SessionEvent{Kind: backend.EventSignedOut})
	return err
}

// SessionEvents yields session state changes.
func (b *Backend) SessionEvents() <-chan backend.SessionEvent {
	return b.events
}

// FetchProfile retrieves the profile row for a user id.
func (b *Backend) FetchProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var rows []model.Profile
	path := "/rest/v1/profiles?id=eq." + url.QueryEscape(userID)
	if err := b.client.get(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("profile %s not found", userID)
	}
	return &rows[0], nil
}

// UpdateProfile applies a partial update and returns the merged profile.
func (b *Backend) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error) {
	var rows []model.Profile
	path := "/rest/v1/profiles?id=eq." + url.QueryEscape(userID)
	if err := b.client.patch(ctx, path, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("profile %s not found", userID)
	}
	return &rows[0], nil
}

// Collection returns the remote table matching the collection key.
// Scoped keys ("notifications:<user>") map to the table name; the
// server applies per-user row filtering from the session token.
func (b *Backend) Collection(key string) backend.Collection {
	table := key
	for i := range key {
		if key[i] == ':' {
			table = key[:i]
			break
		}
	}
	return &remoteCollection{client: b.client, table: table}
}

func (b *Backend) openSession(resp tokenResponse) (*backend.Session, error) {
	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, &backend.AuthError{Message: "malformed session response from backend"}
	}
	b.client.setToken(resp.AccessToken)

	sess := &backend.Session{Token: resp.AccessToken, UserID: resp.User.ID}
	b.emit(backend.SessionEvent{Kind: backend.EventSignedIn, Session: sess})
	return sess, nil
}

// emit sends a session event without blocking.
func (b *Backend) emit(ev backend.SessionEvent) {
	select {
	case b.events <- ev:
	default:
	}
}

// remoteCollection is a backend.Collection over one REST table.
type remoteCollection struct {
	client *client
	table  string
}

// List returns all visible rows. Remote collections always exist; the
// server owns seeding, so the resource layer never seeds remote data.
func (c *remoteCollection) List(ctx context.Context) ([]backend.Record, bool, error) {
	var records []backend.Record
	path := "/rest/v1/" + url.PathEscape(c.table) + "?select=*"
	if err := c.client.get(ctx, path, &records); err != nil {
		return nil, false, err
	}
	return records, true, nil
}

// Replace is unsupported remotely; the server owns bulk state.
func (c *remoteCollection) Replace(ctx context.Context, records []backend.Record) error {
	return fmt.Errorf("replace is not supported for remote collection %q", c.table)
}

func (c *remoteCollection) Insert(ctx context.Context, rec backend.Record) error {
	path := "/rest/v1/" + url.PathEscape(c.table)
	return c.client.post(ctx, path, rec, nil)
}

func (c *remoteCollection) Update(ctx context.Context, id string, rec backend.Record) error {
	path := "/rest/v1/" + url.PathEscape(c.table) + "?id=eq." + url.QueryEscape(id)
	return c.client.patch(ctx, path, rec, nil)
}

func (c *remoteCollection) Delete(ctx context.Context, id string) error {
	path := "/rest/v1/" + url.PathEscape(c.table) + "?id=eq." + url.QueryEscape(id)
	return c.client.delete(ctx, path)
}
