package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/tests/testutil"
)

func newNotificationFixture(t *testing.T, b backend.Backend, userID string, seeded bool) *NotificationStore {
	t.Helper()
	s := NewNotificationStore(b, testutil.Actor(userID, model.RoleVolunteer), userID, seeded)
	t.Cleanup(s.Close)
	return s
}

func TestMarkReadIsIdempotent(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	s := newNotificationFixture(t, b, "u1", false)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Notification{Title: "Shift reminder"})
	require.NoError(t, err)
	assert.False(t, created.Read)

	count, err := s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	first, err := s.MarkRead(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, first.Read)

	count, err = s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Second call is a no-op on an already-read entry.
	second, err := s.MarkRead(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, second.Read)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)

	count, err = s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkAllReadRecomputesCount(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	s := newNotificationFixture(t, b, "u1", false)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.Create(ctx, model.Notification{Title: title})
		require.NoError(t, err)
	}

	count, err := s.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	unread := true
	remaining, err := s.List(ctx, NotificationFilter{Unread: &unread})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestNotificationsScopedPerIdentity(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	ctx := context.Background()

	alice := newNotificationFixture(t, b, "alice", false)
	bob := newNotificationFixture(t, b, "bob", false)

	_, err := alice.Create(ctx, model.Notification{Title: "for alice"})
	require.NoError(t, err)
	alice.Flush()

	got, err := bob.List(ctx, NotificationFilter{})
	require.NoError(t, err)
	assert.Empty(t, got, "one identity's notifications must be invisible to another")

	mine, err := alice.List(ctx, NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice", mine[0].UserID)
}

func TestNotificationSeedIsPerUser(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	ctx := context.Background()

	s := newNotificationFixture(t, b, "u1", true)
	got, err := s.List(ctx, NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, got, len(seedNotifications("u1")))
	for _, n := range got {
		assert.Equal(t, "u1", n.UserID)
	}

	count, err := s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "seed carries one read and two unread entries")
}

func TestNotificationDelete(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	s := newNotificationFixture(t, b, "u1", false)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Notification{Title: "temp"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))
	_, err = s.MarkRead(ctx, created.ID)
	assert.True(t, IsNotFound(err))
}
