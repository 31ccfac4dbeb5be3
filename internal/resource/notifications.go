package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/store"
)

// NotificationFilter restricts notification reads.
type NotificationFilter struct {
	Kind *string

	// Unread keeps only entries whose read flag matches the negation
	// of this value. Nil matches everything.
	Unread *bool
}

// NotificationStore is the notifications resource store. It is scoped
// to one acting identity; construct a fresh store on sign-in so read
// state never leaks across identities.
type NotificationStore struct {
	inner  *Store[model.Notification]
	userID string
}

// NewNotificationStore creates the notification store for userID.
func NewNotificationStore(b backend.Backend, actor func() *model.Identity, userID string, seeded bool) *NotificationStore {
	cfg := Config[model.Notification]{
		Name:       "notifications",
		Collection: b.Collection(store.UserKey("notifications", userID)),
		Actor:      actor,
		ID:         func(n model.Notification) string { return n.ID },
		Validate:   validateStoredNotification,
		OnCreate: func(n *model.Notification, actor model.Identity, now time.Time) {
			n.ID = uuid.New().String()
			if n.UserID == "" {
				n.UserID = actor.ID
			}
			n.CreatedAt = now
			n.UpdatedAt = now
		},
		OnUpdate: func(n *model.Notification, now time.Time) {
			n.UpdatedAt = now
		},
	}
	if seeded {
		cfg.Seed = func() []model.Notification { return seedNotifications(userID) }
	}
	return &NotificationStore{inner: NewStore(cfg), userID: userID}
}

// Close drains pending durable writes and stops the store.
func (s *NotificationStore) Close() { s.inner.Close() }

// Flush blocks until pending durable writes are applied.
func (s *NotificationStore) Flush() { s.inner.Flush() }

// List returns the notifications matching every supplied filter,
// newest first.
func (s *NotificationStore) List(ctx context.Context, filter NotificationFilter) ([]model.Notification, error) {
	return s.inner.List(ctx, func(n model.Notification) bool {
		if filter.Kind != nil && n.Kind != *filter.Kind {
			return false
		}
		if filter.Unread != nil && n.Read == *filter.Unread {
			return false
		}
		return true
	})
}

// Create stores a new notification for the scoped identity.
func (s *NotificationStore) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	if n.Title == "" {
		return model.Notification{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if n.Kind == "" {
		n.Kind = model.NotificationKindSystem
	}
	return s.inner.Create(ctx, n)
}

// MarkRead clears the unread flag on one notification. Marking an
// already-read entry is a no-op and issues no durable write.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	current, err := s.inner.Get(ctx, id)
	if err != nil {
		return model.Notification{}, err
	}
	if current.Read {
		return current, nil
	}
	return s.inner.Update(ctx, id, func(n *model.Notification) {
		n.Read = true
	})
}

// MarkAllRead clears the unread flag on every notification and returns
// the recomputed unread count (always zero on success).
func (s *NotificationStore) MarkAllRead(ctx context.Context) (int, error) {
	pending, err := s.inner.List(ctx, func(n model.Notification) bool {
		return !n.Read
	})
	if err != nil {
		return 0, err
	}
	for _, n := range pending {
		if _, err := s.inner.Update(ctx, n.ID, func(n *model.Notification) {
			n.Read = true
		}); err != nil {
			return 0, err
		}
	}
	return s.UnreadCount(ctx)
}

// Delete removes a notification.
func (s *NotificationStore) Delete(ctx context.Context, id string) error {
	return s.inner.Delete(ctx, id)
}

// UnreadCount recomputes the number of unread notifications from the
// collection. It is never incremented independently.
func (s *NotificationStore) UnreadCount(ctx context.Context) (int, error) {
	entries, err := s.inner.List(ctx, func(n model.Notification) bool {
		return !n.Read
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// validateStoredNotification is the decode check applied to every
// durable read.
func validateStoredNotification(n model.Notification) error {
	if n.ID == "" {
		return fmt.Errorf("notification record missing id")
	}
	return nil
}
