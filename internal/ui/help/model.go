package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/keys"
	"github.com/mtran/volunteer-hub/internal/theme"
)

// section groups the bindings that apply to one surface of the app.
type section struct {
	title    string
	bindings sectionKeys
}

// sectionKeys adapts a flat binding list to bubbles' help.KeyMap so
// each section renders as one short-help row.
type sectionKeys []key.Binding

func (s sectionKeys) ShortHelp() []key.Binding  { return s }
func (s sectionKeys) FullHelp() [][]key.Binding { return [][]key.Binding{s} }

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// sections lists the per-surface bindings in the order the surfaces
// appear in the app.
func (m Model) sections() []section {
	k := m.keys
	return []section{
		{"Views", sectionKeys{k.Board, k.Expenses, k.Feedback, k.Notifications, k.Help}},
		{"Board", sectionKeys{k.New, k.MoveLeft, k.MoveRight, k.Block, k.Search, k.CyclePriority}},
		{"Expenses", sectionKeys{k.Approve, k.Reject, k.Refresh}},
		{"Notifications", sectionKeys{k.MarkRead, k.MarkAllRead}},
	}
}

// View renders the help overlay: the essential bindings first, then one
// labeled row per surface.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	headingStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue)

	m.help.Width = m.width - 8

	blocks := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
	}
	for _, sec := range m.sections() {
		blocks = append(blocks,
			headingStyle.Render(sec.title),
			m.help.View(sec.bindings),
			"",
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)

	return theme.BorderStyle.
		Padding(1, 2).
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 8
}
