package store

import "context"

// Store is the durable key/value contract for serialized entity
// collections. Keys are scoped per entity type (see Key and UserKey);
// within one key the owning resource store is the sole writer.
type Store interface {
	// Read returns the serialized collection stored under key.
	// The second result is false when no collection exists yet.
	Read(ctx context.Context, key string) ([]byte, bool, error)

	// Write replaces the serialized collection stored under key.
	Write(ctx context.Context, key string, data []byte) error
}

// Key returns the storage key for a globally scoped entity collection.
func Key(entity string) string {
	return entity
}

// UserKey returns the storage key for an entity collection scoped to the
// acting identity. Notifications use this so read state never leaks
// across identities.
func UserKey(entity, userID string) string {
	return entity + ":" + userID
}
