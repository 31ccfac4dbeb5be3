package workflow

import (
	"context"
	"fmt"

	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/resource"
)

// Progress values derived from a status transition. Moving into any
// other column leaves progress alone unless the caller supplies one.
const (
	progressCompleted  = 100
	progressInProgress = 50
)

// Engine layers board semantics on top of the task store: transition
// validation, progress derivation, and drop handling. Tasks flow
// backlog → todo → progress → review → completed, with blocked
// reachable from any non-terminal column; the engine never advances a
// task on its own.
type Engine struct {
	tasks *resource.TaskStore
}

// NewEngine creates a workflow engine over the given task store.
func NewEngine(tasks *resource.TaskStore) *Engine {
	return &Engine{tasks: tasks}
}

// Move transitions a task to target, deriving the new progress value.
// Moving a task onto its current column is a no-op and issues no write.
func (e *Engine) Move(ctx context.Context, id, target string) (model.Task, error) {
	return e.move(ctx, id, target, nil)
}

// MoveWithProgress transitions a task to target with an explicit
// progress value, overriding the derived one. Moving into completed
// pins progress at 100 no matter what the caller supplies.
func (e *Engine) MoveWithProgress(ctx context.Context, id, target string, progress int) (model.Task, error) {
	return e.move(ctx, id, target, &progress)
}

func (e *Engine) move(ctx context.Context, id, target string, explicit *int) (model.Task, error) {
	if !model.ValidTaskStatus(target) {
		return model.Task{}, &resource.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", target)}
	}
	if explicit != nil && (*explicit < 0 || *explicit > 100) {
		return model.Task{}, &resource.ValidationError{Field: "progress", Reason: "must be between 0 and 100"}
	}

	current, err := e.tasks.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if current.Status == target && explicit == nil {
		return current, nil
	}

	patch := model.TaskPatch{Status: &target}
	switch {
	case target == model.TaskStatusCompleted:
		// A completed task always reads 100, explicit value included.
		p := progressCompleted
		patch.Progress = &p
	case explicit != nil:
		patch.Progress = explicit
	case target == model.TaskStatusProgress:
		p := progressInProgress
		patch.Progress = &p
	}
	return e.tasks.Update(ctx, id, patch)
}

// Drop handles a drag-and-drop gesture resolved to (taskID, column).
// It reports whether a transition was actually issued; a drop on the
// originating column returns false with no write. If the underlying
// update fails the board state is untouched, so the caller only has to
// surface the error.
func (e *Engine) Drop(ctx context.Context, taskID, column string) (bool, error) {
	current, err := e.tasks.Get(ctx, taskID)
	if err != nil {
		return false, err
	}
	if current.Status == column {
		return false, nil
	}
	if _, err := e.Move(ctx, taskID, column); err != nil {
		return false, err
	}
	return true, nil
}

// BoardFilter restricts the visible task set. Empty fields match
// everything; supplied fields intersect.
type BoardFilter struct {
	EventID  string
	Query    string
	Priority string
}

// Column is one board column with its tasks in collection order.
type Column struct {
	Status string
	Tasks  []model.Task
}

// Board is the full column layout for one filter.
type Board struct {
	Columns []Column
}

// Tasks flattens the board back into a single slice, column by column.
func (b Board) Tasks() []model.Task {
	var out []model.Task
	for _, c := range b.Columns {
		out = append(out, c.Tasks...)
	}
	return out
}

// TotalProgress is the mean progress across all tasks on the board,
// rounded down. An empty board reports zero.
func (b Board) TotalProgress() int {
	sum, count := 0, 0
	for _, c := range b.Columns {
		for _, t := range c.Tasks {
			sum += t.Progress
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

// Board groups the filtered task set into columns, one per workflow
// status in board order. Every column is present even when empty.
func (e *Engine) Board(ctx context.Context, filter BoardFilter) (Board, error) {
	rf := resource.TaskFilter{}
	if filter.EventID != "" {
		rf.EventID = &filter.EventID
	}
	if filter.Query != "" {
		rf.Query = &filter.Query
	}
	if filter.Priority != "" {
		rf.Priority = &filter.Priority
	}

	tasks, err := e.tasks.List(ctx, rf)
	if err != nil {
		return Board{}, err
	}

	byStatus := make(map[string][]model.Task, len(model.TaskStatuses))
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	board := Board{Columns: make([]Column, 0, len(model.TaskStatuses))}
	for _, status := range model.TaskStatuses {
		board.Columns = append(board.Columns, Column{Status: status, Tasks: byStatus[status]})
	}
	return board, nil
}
