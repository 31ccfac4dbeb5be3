package signin

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/theme"
)

// SubmitMsg is dispatched when the user submits the sign-in form.
type SubmitMsg struct {
	Email    string
	Password string
}

// RegisterMsg is dispatched when the user submits the registration form.
type RegisterMsg struct {
	Name     string
	Email    string
	Password string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name     string
	email    string
	password string
	register bool
}

// Model is the Bubble Tea model for the sign-in / registration form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	errText string
	width   int
	height  int
}

// New creates a new sign-in form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form. Call again to reset after a failed attempt.
func (m *Model) Start() tea.Cmd {
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError displays an authentication failure message above the form.
func (m *Model) SetError(text string) {
	m.errText = text
}

// Update handles messages for the sign-in form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		// One-shot: the form stays down until Start rebuilds it, so a
		// slow sign-in cannot be resubmitted by further keypresses.
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

// View renders the sign-in form.
func (m Model) View() string {
	if m.form == nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(theme.HelpStyle.Render("Signing in…"))
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("VolunteerHub — Sign In")
	if m.errText != "" {
		content += "\n" + lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(m.errText)
	}
	content += "\n" + m.form.View()

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
			huh.NewSelect[bool]().
				Title("Mode").
				Options(
					huh.NewOption("Sign in", false),
					huh.NewOption("Create account", true),
				).
				Value(&m.fb.register),
			huh.NewInput().
				Title("Name").
				Placeholder("Only needed for new accounts").
				Value(&m.fb.name),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.org").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password

	if m.fb.register {
		name := strings.TrimSpace(m.fb.name)
		return func() tea.Msg {
			return RegisterMsg{Name: name, Email: email, Password: password}
		}
	}
	return func() tea.Msg {
		return SubmitMsg{Email: email, Password: password}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
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

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
