// Package local implements the backend contract against the durable
// local store. It is selected when no remote backend is configured and
// synthesizes deterministic identities so the application is fully
// usable without network access.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/volunteer-hub/internal/auth"
	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/store"
)

const (
	credentialsKey = "local:credentials"
	profilesKey    = "local:profiles"
)

// credentialRecord is a registered account in the local credential store.
type credentialRecord struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// Backend is the local-fallback implementation of backend.Backend.
type Backend struct {
	st     store.Store
	tokens *tokenIssuer

	mu      sync.Mutex
	session *backend.Session

	events chan backend.SessionEvent
}

// New creates a local backend over the given durable store.
func New(st store.Store) (*Backend, error) {
	tokens, err := newTokenIssuer(st)
	if err != nil {
		return nil, err
	}
	return &Backend{
		st:     st,
		tokens: tokens,
		events: make(chan backend.SessionEvent, 16),
	}, nil
}

// SignIn verifies credentials locally. Registered accounts must present
// their password; unknown emails get a deterministic synthesized identity
// so demo mode accepts any credentials.
func (b *Backend) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, &backend.AuthError{Message: "email and password are required"}
	}

	cred, err := b.findCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	if cred != nil {
		ok, err := auth.CheckPassword(password, cred.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("verifying password: %w", err)
		}
		if !ok {
			return nil, &backend.AuthError{Message: "invalid email or password"}
		}
	}

	profile, err := b.ensureProfile(ctx, email, nil)
	if err != nil {
		return nil, err
	}

	return b.openSession(profile)
}

// Register creates a local account with a hashed password and a fresh
// profile carrying default gamification values.
func (b *Backend) Register(ctx context.Context, reg backend.Registration) (*backend.Session, error) {
	email := normalizeEmail(reg.Email)
	if email == "" || reg.Password == "" {
		return nil, &backend.AuthError{Message: "email and password are required"}
	}
	if len(reg.Password) < 8 {
		return nil, &backend.AuthError{Message: "password must be at least 8 characters"}
	}

	existing, err := b.findCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &backend.AuthError{Message: "an account with this email already exists"}
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	if err := b.appendCredential(ctx, credentialRecord{Email: email, PasswordHash: hash}); err != nil {
		return nil, err
	}

	profile, err := b.ensureProfile(ctx, email, &reg)
	if err != nil {
		return nil, err
	}

	return b.openSession(profile)
}

// Restore revalidates a previously issued token and reopens its session.
func (b *Backend) Restore(ctx context.Context, token string) (*backend.Session, error) {
	claims, err := b.tokens.parse(token)
	if err != nil {
		return nil, &backend.AuthError{Message: "session expired, please sign in again", Err: err}
	}

	profile, err := b.ensureProfile(ctx, claims.Email, nil)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	sess := &backend.Session{Token: token, UserID: profile.ID}
	b.session = sess
	b.mu.Unlock()

	b.emit(backend.SessionEvent{Kind: backend.EventSignedIn, Session: sess})
	return sess, nil
}

// SignOut clears the local session.
func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	b.session = nil
	b.mu.Unlock()

	b.emit(backend.SessionEvent{Kind: backend.EventSignedOut})
	return nil
}

// SessionEvents yields session state changes.
func (b *Backend) SessionEvents() <-chan backend.SessionEvent {
	return b.events
}

// FetchProfile retrieves a stored profile by user id.
func (b *Backend) FetchProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profiles, err := b.readProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID == userID {
			p := profiles[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile %s not found", userID)
}

// UpdateProfile merges the patch into the stored profile and returns it.
func (b *Backend) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (*model.Profile, error) {
	profiles, err := b.readProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID != userID {
			continue
		}
		profiles[i].Apply(patch, time.Now().UTC())
		if err := b.writeProfiles(ctx, profiles); err != nil {
			return nil, err
		}
		p := profiles[i]
		return &p, nil
	}
	return nil, fmt.Errorf("profile %s not found", userID)
}

// Collection returns the local collection stored under key.
func (b *Backend) Collection(key string) backend.Collection {
	return &collection{st: b.st, key: key}
}

// openSession issues a token for the profile and publishes the sign-in.
func (b *Backend) openSession(profile *model.Profile) (*backend.Session, error) {
	token, err := b.tokens.issue(profile)
	if err != nil {
		return nil, fmt.Errorf("issuing session token: %w", err)
	}

	sess := &backend.Session{Token: token, UserID: profile.ID}
	b.mu.Lock()
	b.session = sess
	b.mu.Unlock()

	b.emit(backend.SessionEvent{Kind: backend.EventSignedIn, Session: sess})
	return sess, nil
}

// ensureProfile returns the stored profile for email, synthesizing and
// persisting one on first sight. reg supplies extra fields when the
// profile originates from a registration.
func (b *Backend) ensureProfile(ctx context.Context, email string, reg *backend.Registration) (*model.Profile, error) {
	profiles, err := b.readProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].Email == email {
			p := profiles[i]
			return &p, nil
		}
	}

	profile := synthesizeProfile(email, reg)
	profiles = append(profiles, profile)
	if err := b.writeProfiles(ctx, profiles); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (b *Backend) findCredential(ctx context.Context, email string) (*credentialRecord, error) {
	data, exists, err := b.st.Read(ctx, credentialsKey)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	if !exists {
		return nil, nil
	}
	var creds []credentialRecord
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decoding credentials: %w", err)
	}
	for i := range creds {
		if creds[i].Email == email {
			c := creds[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (b *Backend) appendCredential(ctx context.Context, cred credentialRecord) error {
	data, exists, err := b.st.Read(ctx, credentialsKey)
	if err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}
	var creds []credentialRecord
	if exists {
		if err := json.Unmarshal(data, &creds); err != nil {
			return fmt.Errorf("decoding credentials: %w", err)
		}
	}
	creds = append(creds, cred)
	out, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := b.st.Write(ctx, credentialsKey, out); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

func (b *Backend) readProfiles(ctx context.Context) ([]model.Profile, error) {
	data, exists, err := b.st.Read(ctx, profilesKey)
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	if !exists {
		return nil, nil
	}
	var profiles []model.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decoding profiles: %w", err)
	}
	return profiles, nil
}

func (b *Backend) writeProfiles(ctx context.Context, profiles []model.Profile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := b.st.Write(ctx, profilesKey, data); err != nil {
		return fmt.Errorf("writing profiles: %w", err)
	}
	return nil
}

// emit sends a session event without blocking.
func (b *Backend) emit(ev backend.SessionEvent) {
	select {
	case b.events <- ev:
	default:
		// Drop if the subscriber is not keeping up.
	}
}

// synthesizeProfile builds a deterministic local profile for an email.
// The role is inferred from the address by substring convention.
func synthesizeProfile(email string, reg *backend.Registration) model.Profile {
	now := time.Now().UTC()
	profile := model.Profile{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Email:     email,
		Name:      nameFromEmail(email),
		Role:      inferRole(email),
		Level:     1,
		XP:        0,
		Streak:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if reg != nil {
		if reg.Name != "" {
			profile.Name = reg.Name
		}
		profile.Phone = reg.Phone
		profile.Location = reg.Location
		profile.Skills = reg.Skills
	}
	return profile
}

// inferRole maps an email address to a role: addresses containing
// "admin" become admins, "organizer" becomes organizer, everything
// else is a volunteer.
func inferRole(email string) model.Role {
	switch {
	case strings.Contains(email, "admin"):
		return model.RoleAdmin
	case strings.Contains(email, "organizer"):
		return model.RoleOrganizer
	default:
		return model.RoleVolunteer
	}
}

// nameFromEmail derives a display name from the address local part.
func nameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return email
	}
	return strings.Join(words, " ")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
