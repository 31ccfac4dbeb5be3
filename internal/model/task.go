package model

import "time"

// Task workflow status constants. Board columns render in this order.
const (
	TaskStatusBacklog   = "backlog"
	TaskStatusTodo      = "todo"
	TaskStatusProgress  = "progress"
	TaskStatusReview    = "review"
	TaskStatusCompleted = "completed"
	TaskStatusBlocked   = "blocked"
)

// Task priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// TaskStatuses lists all workflow statuses in board-column order.
var TaskStatuses = []string{
	TaskStatusBacklog,
	TaskStatusTodo,
	TaskStatusProgress,
	TaskStatusReview,
	TaskStatusCompleted,
	TaskStatusBlocked,
}

// ValidTaskStatus reports whether status is one of the six workflow states.
func ValidTaskStatus(status string) bool {
	for _, s := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Task is a unit of event work tracked on the board.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`

	// EventID references the owning event; nil for global tasks.
	EventID *string `json:"event_id,omitempty"`

	// Title is the human-readable summary of the task.
	Title string `json:"title"`

	// Description is the full body text.
	Description string `json:"description"`

	// Status is the workflow state (use TaskStatus* constants).
	Status string `json:"status"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority"`

	// Progress is the completion percentage in [0, 100].
	Progress int `json:"progress"`

	// Tags is a set of free-form labels.
	Tags []string `json:"tags,omitempty"`

	// Dependencies lists task IDs this task depends on. Informational
	// only; not enforced as a blocking constraint.
	Dependencies []string `json:"dependencies,omitempty"`

	// AssigneeID is the volunteer assigned to this task, if any.
	AssigneeID string `json:"assignee_id,omitempty"`

	// CreatedBy is the identity that created the task.
	CreatedBy string `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Priority     *string  `json:"priority,omitempty"`
	Progress     *int     `json:"progress,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	AssigneeID   *string  `json:"assignee_id,omitempty"`
}
