package model

import "time"

// Notification kind constants.
const (
	NotificationKindTask    = "task"
	NotificationKindExpense = "expense"
	NotificationKindEvent   = "event"
	NotificationKindSystem  = "system"
)

// Notification is an alert surfaced to a single user. Notifications are
// stored per identity so one user's read state never leaks into another's.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// UserID is the identity this notification belongs to.
	UserID string `json:"user_id"`

	// EventID references a related event, if any.
	EventID *string `json:"event_id,omitempty"`

	// Kind is one of the NotificationKind* constants.
	Kind string `json:"kind"`

	// Title is the short headline text.
	Title string `json:"title"`

	// Message is the full notification body.
	Message string `json:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
