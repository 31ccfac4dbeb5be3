package resource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/store"
)

// TaskFilter restricts task reads. Nil fields match everything.
type TaskFilter struct {
	EventID  *string
	Status   *string
	Priority *string

	// Query is a free-text match over title, description, and tags.
	Query *string

	// Tags matches tasks carrying any of these tags.
	Tags []string
}

// TaskStore is the tasks resource store.
type TaskStore struct {
	inner *Store[model.Task]
}

// NewTaskStore creates the tasks store over the given backend. seeded
// controls whether an empty local scope gets the demo dataset.
func NewTaskStore(b backend.Backend, actor func() *model.Identity, seeded bool) *TaskStore {
	cfg := Config[model.Task]{
		Name:       "tasks",
		Collection: b.Collection(store.Key("tasks")),
		Actor:      actor,
		ID:         func(t model.Task) string { return t.ID },
		Validate:   validateStoredTask,
		OnCreate: func(t *model.Task, actor model.Identity, now time.Time) {
			t.ID = uuid.New().String()
			t.CreatedBy = actor.ID
			t.CreatedAt = now
			t.UpdatedAt = now
		},
		OnUpdate: func(t *model.Task, now time.Time) {
			t.UpdatedAt = now
		},
	}
	if seeded {
		cfg.Seed = seedTasks
	}
	return &TaskStore{inner: NewStore(cfg)}
}

// Close drains pending durable writes and stops the store.
func (s *TaskStore) Close() { s.inner.Close() }

// Flush blocks until pending durable writes are applied.
func (s *TaskStore) Flush() { s.inner.Flush() }

// List returns the tasks matching every supplied filter, in collection
// order (newest first).
func (s *TaskStore) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	return s.inner.List(ctx, func(t model.Task) bool {
		if filter.EventID != nil && (t.EventID == nil || *t.EventID != *filter.EventID) {
			return false
		}
		if filter.Status != nil && t.Status != *filter.Status {
			return false
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			return false
		}
		if filter.Query != nil && !taskMatchesQuery(t, *filter.Query) {
			return false
		}
		if len(filter.Tags) > 0 && !hasAnyTag(t.Tags, filter.Tags) {
			return false
		}
		return true
	})
}

// Get returns the task with the given id.
func (s *TaskStore) Get(ctx context.Context, id string) (model.Task, error) {
	return s.inner.Get(ctx, id)
}

// Create validates and stores a new task, authenticated to the acting
// identity.
func (s *TaskStore) Create(ctx context.Context, task model.Task) (model.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return model.Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if task.Status == "" {
		task.Status = model.TaskStatusBacklog
	}
	if !model.ValidTaskStatus(task.Status) {
		return model.Task{}, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", task.Status)}
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if !validPriority(task.Priority) {
		return model.Task{}, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", task.Priority)}
	}
	if task.Progress < 0 || task.Progress > 100 {
		return model.Task{}, &ValidationError{Field: "progress", Reason: "must be between 0 and 100"}
	}
	return s.inner.Create(ctx, task)
}

// Update merges the patch into the task with the given id.
func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if patch.Status != nil && !model.ValidTaskStatus(*patch.Status) {
		return model.Task{}, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", *patch.Status)}
	}
	if patch.Priority != nil && !validPriority(*patch.Priority) {
		return model.Task{}, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", *patch.Priority)}
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return model.Task{}, &ValidationError{Field: "progress", Reason: "must be between 0 and 100"}
	}

	return s.inner.Update(ctx, id, func(t *model.Task) {
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.Progress != nil {
			t.Progress = *patch.Progress
		}
		if patch.Tags != nil {
			t.Tags = patch.Tags
		}
		if patch.Dependencies != nil {
			t.Dependencies = patch.Dependencies
		}
		if patch.AssigneeID != nil {
			t.AssigneeID = *patch.AssigneeID
		}
	})
}

// validateStoredTask is the decode check applied to every durable read.
func validateStoredTask(t model.Task) error {
	if t.ID == "" {
		return fmt.Errorf("task record missing id")
	}
	if !model.ValidTaskStatus(t.Status) {
		return fmt.Errorf("task %s has unknown status %q", t.ID, t.Status)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("task %s has progress %d out of range", t.ID, t.Progress)
	}
	return nil
}

func validPriority(p string) bool {
	switch p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent:
		return true
	}
	return false
}

func taskMatchesQuery(t model.Task, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
