package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/store"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	b, err := New(st)
	require.NoError(t, err)
	return b
}

func TestSignInSynthesizesDeterministicIdentity(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	first, err := b.SignIn(ctx, "pat@example.org", "anything")
	require.NoError(t, err)

	second, err := b.SignIn(ctx, "pat@example.org", "something-else")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID, "same email must resolve to the same user id")

	other, err := b.SignIn(ctx, "sam@example.org", "anything")
	require.NoError(t, err)
	assert.NotEqual(t, first.UserID, other.UserID)
}

func TestSignInNormalizesEmail(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	first, err := b.SignIn(ctx, "Pat@Example.org ", "pw")
	require.NoError(t, err)
	second, err := b.SignIn(ctx, "pat@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestRegisteredAccountRequiresPassword(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	sess, err := b.Register(ctx, backend.Registration{
		Email:    "member@example.org",
		Password: "correct-horse",
		Name:     "Member",
	})
	require.NoError(t, err)

	_, err = b.SignIn(ctx, "member@example.org", "wrong")
	require.Error(t, err)
	assert.True(t, backend.IsAuthError(err))

	again, err := b.SignIn(ctx, "member@example.org", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, again.UserID)
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	reg := backend.Registration{Email: "dup@example.org", Password: "long-enough"}
	_, err := b.Register(ctx, reg)
	require.NoError(t, err)

	_, err = b.Register(ctx, reg)
	require.Error(t, err)
	assert.True(t, backend.IsAuthError(err))
}

func TestRestoreReopensIssuedSession(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	sess, err := b.SignIn(ctx, "pat@example.org", "pw")
	require.NoError(t, err)

	restored, err := b.Restore(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, restored.UserID)
}

func TestRestoreRejectsGarbageToken(t *testing.T) {
	b := newBackend(t)

	_, err := b.Restore(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, backend.IsAuthError(err))
}

func TestTokenSecretSurvivesRestart(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	first, err := New(st)
	require.NoError(t, err)
	sess, err := first.SignIn(ctx, "pat@example.org", "pw")
	require.NoError(t, err)

	// A second backend over the same store reuses the persisted secret,
	// so tokens issued before the restart still parse.
	second, err := New(st)
	require.NoError(t, err)
	restored, err := second.Restore(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, restored.UserID)
}

func TestProfileUpdateRoundTrip(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	sess, err := b.SignIn(ctx, "pat@example.org", "pw")
	require.NoError(t, err)

	name := "Pat Updated"
	updated, err := b.UpdateProfile(ctx, sess.UserID, model.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Pat Updated", updated.Name)

	fetched, err := b.FetchProfile(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Pat Updated", fetched.Name)
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "Pat Smith", nameFromEmail("pat.smith@example.org"))
	assert.Equal(t, "Jo", nameFromEmail("jo@example.org"))
	assert.Equal(t, "Alex Lee", nameFromEmail("alex_lee@example.org"))
}
