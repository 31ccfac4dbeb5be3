package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/session"
	"github.com/mtran/volunteer-hub/tests/testutil"
)

// nextEvent reads one session event or fails the test after a timeout.
func nextEvent(t *testing.T, mgr *session.Manager) session.Event {
	t.Helper()
	select {
	case ev := <-mgr.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session event")
		return session.Event{}
	}
}

func TestSignInInfersRoleFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  model.Role
	}{
		{"admin@example.org", model.RoleAdmin},
		{"organizer.jane@example.org", model.RoleOrganizer},
		{"pat@example.org", model.RoleVolunteer},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			mgr, _ := testutil.NewSession(t)
			require.NoError(t, mgr.SignIn(context.Background(), tc.email, "whatever"))

			profile := mgr.Profile()
			require.NotNil(t, profile)
			assert.Equal(t, tc.want, profile.Role)

			role := mgr.Role()
			require.NotNil(t, role)
			assert.Equal(t, tc.want, *role)
		})
	}
}

func TestSignInEmitsLandingRedirect(t *testing.T) {
	mgr, _ := testutil.NewSession(t)
	require.NoError(t, mgr.SignIn(context.Background(), "organizer@example.org", "pw"))

	ev := nextEvent(t, mgr)
	assert.Equal(t, session.EventSignedIn, ev.Kind)
	require.NotNil(t, ev.Redirect)
	assert.Equal(t, session.SurfaceManagement, ev.Redirect.Target)

	mgr2, _ := testutil.NewSession(t)
	require.NoError(t, mgr2.SignIn(context.Background(), "pat@example.org", "pw"))

	ev2 := nextEvent(t, mgr2)
	require.NotNil(t, ev2.Redirect)
	assert.Equal(t, session.SurfaceVolunteer, ev2.Redirect.Target)
}

func TestSignInFailureKeepsStateAndReturnsAuthError(t *testing.T) {
	mgr, _ := testutil.NewSession(t)

	err := mgr.SignIn(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, backend.IsAuthError(err))
	assert.Nil(t, mgr.Identity())
	assert.False(t, mgr.Loading())
	assert.Error(t, mgr.Err())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	mgr, _ := testutil.NewSession(t)

	err := mgr.Register(context.Background(), backend.Registration{
		Email:    "new@example.org",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, backend.IsAuthError(err))
}

func TestRegisterThenWrongPassword(t *testing.T) {
	mgr, _ := testutil.NewSession(t)
	ctx := context.Background()

	require.NoError(t, mgr.Register(ctx, backend.Registration{
		Email:    "member@example.org",
		Password: "correct-horse",
		Name:     "Member",
	}))
	mgr.SignOut(ctx)

	err := mgr.SignIn(ctx, "member@example.org", "wrong-password")
	require.Error(t, err)
	assert.True(t, backend.IsAuthError(err))
}

func TestSignOutClearsSession(t *testing.T) {
	mgr, _ := testutil.NewSession(t)
	ctx := context.Background()

	require.NoError(t, mgr.SignIn(ctx, "pat@example.org", "pw"))
	require.NotNil(t, mgr.Identity())
	nextEvent(t, mgr)

	mgr.SignOut(ctx)
	assert.Nil(t, mgr.Identity())
	assert.Nil(t, mgr.Profile())

	ev := nextEvent(t, mgr)
	assert.Equal(t, session.EventSignedOut, ev.Kind)
}

func TestResumeRestoresCachedSession(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	cache := &testutil.MemoryTokenCache{}
	ctx := context.Background()

	first := session.New(b, cache)
	require.NoError(t, first.SignIn(ctx, "pat@example.org", "pw"))
	wantID := first.Identity().ID

	// A fresh manager over the same backend and token cache picks the
	// session back up.
	second := session.New(b, cache)
	second.Resume(ctx)

	identity := second.Identity()
	require.NotNil(t, identity)
	assert.Equal(t, wantID, identity.ID)
}

func TestResumeWithoutTokenResolvesSignedOut(t *testing.T) {
	mgr, _ := testutil.NewSession(t)
	mgr.Resume(context.Background())

	assert.Nil(t, mgr.Identity())
	assert.False(t, mgr.Loading())

	ev := nextEvent(t, mgr)
	assert.Equal(t, session.EventSignedOut, ev.Kind)
}

func TestUpdateProfileRequiresIdentity(t *testing.T) {
	mgr, _ := testutil.NewSession(t)

	name := "Nobody"
	_, err := mgr.UpdateProfile(context.Background(), model.ProfilePatch{Name: &name})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestUpdateProfileMergesAndRepublishes(t *testing.T) {
	mgr, _ := testutil.NewSession(t)
	ctx := context.Background()

	require.NoError(t, mgr.SignIn(ctx, "pat@example.org", "pw"))
	nextEvent(t, mgr)

	name := "Pat Renamed"
	hours := 12.5
	updated, err := mgr.UpdateProfile(ctx, model.ProfilePatch{Name: &name, HoursVolunteered: &hours})
	require.NoError(t, err)
	assert.Equal(t, "Pat Renamed", updated.Name)
	assert.Equal(t, 12.5, updated.HoursVolunteered)

	// The manager's view reflects the merge.
	profile := mgr.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, "Pat Renamed", profile.Name)

	ev := nextEvent(t, mgr)
	assert.Equal(t, session.EventProfileUpdated, ev.Kind)
}

func TestSecondSignInReplacesFirst(t *testing.T) {
	mgr, _ := testutil.NewSession(t)
	ctx := context.Background()

	require.NoError(t, mgr.SignIn(ctx, "first@example.org", "pw"))
	firstID := mgr.Identity().ID

	require.NoError(t, mgr.SignIn(ctx, "second@example.org", "pw"))
	identity := mgr.Identity()
	require.NotNil(t, identity)
	assert.NotEqual(t, firstID, identity.ID)
	assert.Equal(t, "second@example.org", identity.Email)
}
