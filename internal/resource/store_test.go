package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/volunteer-hub/internal/backend/local"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/store"
	"github.com/mtran/volunteer-hub/tests/testutil"
)

func TestCreateUnauthenticatedLeavesDurableUntouched(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	tasks := NewTaskStore(b, testutil.NoActor(), false)
	defer tasks.Close()
	ctx := context.Background()

	_, err := tasks.Create(ctx, model.Task{Title: "never stored"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = tasks.Create(ctx, model.Task{Title: "still never stored"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	tasks.Flush()
	_, exists, err := b.Collection(store.Key("tasks")).List(ctx)
	require.NoError(t, err)
	assert.False(t, exists, "durable collection must stay unwritten")
}

func TestUpdateAbsentIDIsNotFound(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	tasks := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), false)
	defer tasks.Close()
	ctx := context.Background()

	title := "renamed"
	_, err := tasks.Update(ctx, "no-such-id", model.TaskPatch{Title: &title})
	assert.True(t, IsNotFound(err), "got %v", err)

	// Nothing was added by the failed update.
	all, err := tasks.List(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateListRoundTrip(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	tasks := NewTaskStore(b, testutil.Actor("u1", model.RoleVolunteer), false)
	defer tasks.Close()
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{
		Title:       "Fold flyers",
		Description: "200 copies for the food drive",
		Priority:    model.PriorityHigh,
		Tags:        []string{"outreach"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.CreatedBy)
	assert.False(t, created.CreatedAt.IsZero())

	all, err := tasks.List(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, "Fold flyers", all[0].Title)
	assert.Equal(t, model.PriorityHigh, all[0].Priority)
	assert.Equal(t, []string{"outreach"}, all[0].Tags)
}

func TestCreatePrependsNewestFirst(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	tasks := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), false)
	defer tasks.Close()
	ctx := context.Background()

	_, err := tasks.Create(ctx, model.Task{Title: "older"})
	require.NoError(t, err)
	newer, err := tasks.Create(ctx, model.Task{Title: "newer"})
	require.NoError(t, err)

	all, err := tasks.List(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
}

func TestSeedRunsOncePerScope(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	ctx := context.Background()

	first := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), true)
	seeded, err := first.List(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, seeded, len(seedTasks()))

	_, err = first.Create(ctx, model.Task{Title: "added after seed"})
	require.NoError(t, err)
	first.Flush()
	first.Close()

	// A fresh store over the same durable scope reads the existing copy
	// instead of re-seeding.
	second := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), true)
	defer second.Close()
	all, err := second.List(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, len(seedTasks())+1)
	assert.Equal(t, "added after seed", all[0].Title)
}

func TestMalformedDurableRecordIsStorageFailure(t *testing.T) {
	st := testutil.NewTestStore(t)
	b, err := local.New(st)
	require.NoError(t, err)
	ctx := context.Background()

	// A record with no id fails the per-entity decode check.
	require.NoError(t, st.Write(ctx, store.Key("tasks"), []byte(`[{"title":"no id"}]`)))

	tasks := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), false)
	defer tasks.Close()

	_, err = tasks.List(ctx, TaskFilter{})
	assert.True(t, IsStorage(err), "got %v", err)

	// Garbage that is not JSON at all fails the same way.
	require.NoError(t, st.Write(ctx, store.Key("expenses"), []byte(`{"not":"an array"`)))
	expenses := NewExpenseStore(b, testutil.Actor("u1", model.RoleOrganizer), false)
	defer expenses.Close()

	_, err = expenses.List(ctx, ExpenseFilter{})
	assert.True(t, IsStorage(err), "got %v", err)
}

func TestWriterPersistsInIssueOrder(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	ctx := context.Background()

	first := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), false)
	created, err := first.Create(ctx, model.Task{Title: "v1"})
	require.NoError(t, err)

	title := "v2"
	_, err = first.Update(ctx, created.ID, model.TaskPatch{Title: &title})
	require.NoError(t, err)
	first.Close()

	second := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), false)
	defer second.Close()
	got, err := second.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
}

func TestDeleteRemovesFromCacheAndDurable(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	ctx := context.Background()

	first := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), false)
	created, err := first.Create(ctx, model.Task{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, first.inner.Delete(ctx, created.ID))
	_, err = first.Get(ctx, created.ID)
	assert.True(t, IsNotFound(err))
	first.Close()

	second := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), false)
	defer second.Close()
	all, err := second.List(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTaskFilterComposition(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	tasks := NewTaskStore(b, testutil.Actor("u1", model.RoleOrganizer), true)
	defer tasks.Close()
	ctx := context.Background()

	event := SeedEventBeachCleanup
	status := model.TaskStatusProgress
	got, err := tasks.List(ctx, TaskFilter{EventID: &event, Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tsk-roster", got[0].ID)

	query := "roster"
	got, err = tasks.List(ctx, TaskFilter{Query: &query})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tsk-roster", got[0].ID)

	got, err = tasks.List(ctx, TaskFilter{Tags: []string{"legal", "venue"}})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
