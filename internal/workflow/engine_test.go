package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/resource"
	"github.com/mtran/volunteer-hub/tests/testutil"
)

func newEngineFixture(t *testing.T, seeded bool) (*Engine, *resource.TaskStore) {
	t.Helper()
	b := testutil.NewLocalBackend(t)
	tasks := resource.NewTaskStore(b, testutil.Actor("org-1", model.RoleOrganizer), seeded)
	t.Cleanup(tasks.Close)
	return NewEngine(tasks), tasks
}

func TestMoveToCompletedDerivesFullProgress(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Collect signage"})
	require.NoError(t, err)
	assert.Equal(t, 0, created.Progress)

	moved, err := engine.Move(ctx, created.ID, model.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, moved.Status)
	assert.Equal(t, 100, moved.Progress)
}

func TestMoveToProgressDerivesHalfway(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Book venue"})
	require.NoError(t, err)

	moved, err := engine.Move(ctx, created.ID, model.TaskStatusProgress)
	require.NoError(t, err)
	assert.Equal(t, 50, moved.Progress)
}

func TestMoveWithProgressOverridesDerivation(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Print flyers"})
	require.NoError(t, err)

	moved, err := engine.MoveWithProgress(ctx, created.ID, model.TaskStatusProgress, 80)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusProgress, moved.Status)
	assert.Equal(t, 80, moved.Progress)
}

func TestMoveToCompletedIgnoresExplicitProgress(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Tear down stalls"})
	require.NoError(t, err)

	moved, err := engine.MoveWithProgress(ctx, created.ID, model.TaskStatusCompleted, 40)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, moved.Status)
	assert.Equal(t, 100, moved.Progress, "completed tasks always read 100")
}

func TestMoveOtherColumnsLeaveProgressAlone(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Staff roster"})
	require.NoError(t, err)

	_, err = engine.MoveWithProgress(ctx, created.ID, model.TaskStatusProgress, 70)
	require.NoError(t, err)

	moved, err := engine.Move(ctx, created.ID, model.TaskStatusReview)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusReview, moved.Status)
	assert.Equal(t, 70, moved.Progress, "review carries the existing progress forward")
}

func TestMoveRejectsUnknownStatus(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Untouched"})
	require.NoError(t, err)

	_, err = engine.Move(ctx, created.ID, "doing")
	assert.True(t, resource.IsValidation(err), "got %v", err)

	// The failed move left the task alone.
	got, err := tasks.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusBacklog, got.Status)
}

func TestMoveRejectsOutOfRangeProgress(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Bounded"})
	require.NoError(t, err)

	for _, p := range []int{-1, 101} {
		_, err := engine.MoveWithProgress(ctx, created.ID, model.TaskStatusProgress, p)
		assert.True(t, resource.IsValidation(err), "progress %d should be rejected", p)
	}
}

func TestMoveUnknownTaskIsNotFound(t *testing.T) {
	engine, _ := newEngineFixture(t, false)

	_, err := engine.Move(context.Background(), "no-such-task", model.TaskStatusTodo)
	assert.True(t, resource.IsNotFound(err), "got %v", err)
}

func TestDropOnOriginColumnIssuesNoWrite(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Stationary"})
	require.NoError(t, err)

	issued, err := engine.Drop(ctx, created.ID, model.TaskStatusBacklog)
	require.NoError(t, err)
	assert.False(t, issued)

	got, err := tasks.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, got.UpdatedAt, "same-column drop must not touch the task")
}

func TestDropOnAnotherColumnTransitions(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{Title: "Mover"})
	require.NoError(t, err)

	issued, err := engine.Drop(ctx, created.ID, model.TaskStatusTodo)
	require.NoError(t, err)
	assert.True(t, issued)

	got, err := tasks.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusTodo, got.Status)
}

func TestBoardColumnsFollowWorkflowOrder(t *testing.T) {
	engine, _ := newEngineFixture(t, true)

	board, err := engine.Board(context.Background(), BoardFilter{})
	require.NoError(t, err)
	require.Len(t, board.Columns, len(model.TaskStatuses))
	for i, col := range board.Columns {
		assert.Equal(t, model.TaskStatuses[i], col.Status)
	}
}

func TestBoardKeepsEmptyColumns(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	_, err := tasks.Create(ctx, model.Task{Title: "Lonely"})
	require.NoError(t, err)

	board, err := engine.Board(ctx, BoardFilter{})
	require.NoError(t, err)
	require.Len(t, board.Columns, len(model.TaskStatuses))
	assert.Len(t, board.Columns[0].Tasks, 1)
	for _, col := range board.Columns[1:] {
		assert.Empty(t, col.Tasks, "column %s should be present but empty", col.Status)
	}
}

func TestBoardFilterComposition(t *testing.T) {
	engine, _ := newEngineFixture(t, true)
	ctx := context.Background()

	board, err := engine.Board(ctx, BoardFilter{
		EventID:  resource.SeedEventBeachCleanup,
		Query:    "roster",
		Priority: model.PriorityUrgent,
	})
	require.NoError(t, err)

	all := board.Tasks()
	require.Len(t, all, 1)
	assert.Equal(t, "tsk-roster", all[0].ID)
}

func TestBoardTotalProgress(t *testing.T) {
	engine, tasks := newEngineFixture(t, false)
	ctx := context.Background()

	first, err := tasks.Create(ctx, model.Task{Title: "a"})
	require.NoError(t, err)
	second, err := tasks.Create(ctx, model.Task{Title: "b"})
	require.NoError(t, err)

	_, err = engine.Move(ctx, first.ID, model.TaskStatusCompleted)
	require.NoError(t, err)
	_, err = engine.Move(ctx, second.ID, model.TaskStatusProgress)
	require.NoError(t, err)

	board, err := engine.Board(ctx, BoardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 75, board.TotalProgress())

	empty, err := engine.Board(ctx, BoardFilter{EventID: "evt-none"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalProgress())
}
