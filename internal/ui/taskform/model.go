package taskform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/theme"
)

// TaskSubmittedMsg is dispatched when a new task is submitted via the form.
type TaskSubmittedMsg struct {
	Task model.Task
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    string
	status      string
	tags        string
	eventID     string
}

// Model is the Bubble Tea model for the new-task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium, status: model.TaskStatusBacklog},
		width:  width,
		height: height,
	}
}

// Start initializes the form for creating a new task scoped to eventID
// (empty for a global task).
func (m *Model) Start(eventID string) tea.Cmd {
	m.fb.title = ""
	m.fb.description = ""
	m.fb.priority = model.PriorityMedium
	m.fb.status = model.TaskStatusBacklog
	m.fb.tags = ""
	m.fb.eventID = eventID
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		cmd := m.handleSubmit()
		m.form = nil
		return m, cmd
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Task") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs doing?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Urgent", model.PriorityUrgent),
					huh.NewOption("High", model.PriorityHigh),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("Low", model.PriorityLow),
				).
				Value(&m.fb.priority),
			huh.NewSelect[string]().
				Title("Column").
				Options(
					huh.NewOption("Backlog", model.TaskStatusBacklog),
					huh.NewOption("To Do", model.TaskStatusTodo),
				).
				Value(&m.fb.status),
			huh.NewInput().
				Title("Tags").
				Placeholder("comma,separated (optional)").
				Value(&m.fb.tags),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	task := model.Task{
		Title:       strings.TrimSpace(m.fb.title),
		Description: strings.TrimSpace(m.fb.description),
		Priority:    m.fb.priority,
		Status:      m.fb.status,
	}
	if m.fb.eventID != "" {
		eventID := m.fb.eventID
		task.EventID = &eventID
	}
	for _, tag := range strings.Split(m.fb.tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			task.Tags = append(task.Tags, tag)
		}
	}

	return func() tea.Msg { return TaskSubmittedMsg{Task: task} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
