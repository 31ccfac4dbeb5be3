package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/keys"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/theme"
	"github.com/mtran/volunteer-hub/internal/workflow"
)

// BoardLoadedMsg is sent when the board has been loaded from the engine.
type BoardLoadedMsg struct {
	Board workflow.Board
}

// SelectedTaskMsg is sent when a user selects a task card.
type SelectedTaskMsg struct {
	TaskID string
}

// MoveFailedMsg is sent when a card move was rejected by the engine. The
// board reloads from the store, so the visible state rolls back on its own.
type MoveFailedMsg struct {
	Err error
}

// priorityCycle defines the priority filter states cycled by Tab. The
// empty string means no priority filter.
var priorityCycle = []string{
	"",
	model.PriorityUrgent,
	model.PriorityHigh,
	model.PriorityMedium,
	model.PriorityLow,
}

// Model is the Kanban board view component.
type Model struct {
	engine      *workflow.Engine
	keys        *keys.KeyMap
	board       workflow.Board
	column      int
	row         int
	filter      workflow.BoardFilter
	priIndex    int
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new board model over the given workflow engine.
func New(e *workflow.Engine, k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		engine:      e,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial board.
func (m Model) Init() tea.Cmd {
	return m.LoadBoard()
}

// LoadBoard returns a command that reads the filtered board from the engine.
func (m Model) LoadBoard() tea.Cmd {
	e := m.engine
	filter := m.filter
	return func() tea.Msg {
		b, err := e.Board(context.Background(), filter)
		if err != nil {
			return MoveFailedMsg{Err: err}
		}
		return BoardLoadedMsg{Board: b}
	}
}

// SetEventFilter restricts the board to one event and reloads.
func (m *Model) SetEventFilter(eventID string) tea.Cmd {
	m.filter.EventID = eventID
	return m.LoadBoard()
}

// FilterSummary describes the active filters for the status bar, or "".
func (m Model) FilterSummary() string {
	var parts []string
	if m.filter.EventID != "" {
		parts = append(parts, "event:"+m.filter.EventID)
	}
	if m.filter.Priority != "" {
		parts = append(parts, "priority:"+m.filter.Priority)
	}
	if m.filter.Query != "" {
		parts = append(parts, fmt.Sprintf("search:%q", m.filter.Query))
	}
	return strings.Join(parts, " ")
}

// SelectedTask returns the task under the cursor, if any.
func (m Model) SelectedTask() (model.Task, bool) {
	if m.column >= len(m.board.Columns) {
		return model.Task{}, false
	}
	col := m.board.Columns[m.column]
	if m.row >= len(col.Tasks) {
		return model.Task{}, false
	}
	return col.Tasks[m.row], true
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BoardLoadedMsg:
		m.board = msg.Board
		m.clampCursor()
		return m, nil

	case MoveFailedMsg:
		return m, m.LoadBoard()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.filter.Query = m.searchInput.Value()
		return m, m.LoadBoard()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = ""
		return m, m.LoadBoard()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.column > 0 {
			m.column--
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.column < len(m.board.Columns)-1 {
			m.column++
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if col, ok := m.currentColumn(); ok && m.row < len(col.Tasks)-1 {
			m.row++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		task, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: task.ID}
		}

	case key.Matches(msg, m.keys.MoveLeft):
		return m, m.moveSelected(-1)

	case key.Matches(msg, m.keys.MoveRight):
		return m, m.moveSelected(1)

	case key.Matches(msg, m.keys.Block):
		return m, m.toggleBlocked()

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CyclePriority):
		m.priIndex = (m.priIndex + 1) % len(priorityCycle)
		m.filter.Priority = priorityCycle[m.priIndex]
		return m, m.LoadBoard()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadBoard()
	}

	return m, nil
}

// moveSelected drops the selected card one column to the left or right.
// The gesture layer only computes (taskID, targetState); the engine owns
// the transition.
func (m Model) moveSelected(delta int) tea.Cmd {
	task, ok := m.SelectedTask()
	if !ok {
		return nil
	}
	target := m.column + delta
	if target < 0 || target >= len(m.board.Columns) {
		return nil
	}
	targetStatus := m.board.Columns[target].Status

	e := m.engine
	load := m.LoadBoard()
	return func() tea.Msg {
		moved, err := e.Drop(context.Background(), task.ID, targetStatus)
		if err != nil {
			return MoveFailedMsg{Err: err}
		}
		if !moved {
			return nil
		}
		return load()
	}
}

// toggleBlocked moves the selected card to blocked, or back to todo when
// already blocked.
func (m Model) toggleBlocked() tea.Cmd {
	task, ok := m.SelectedTask()
	if !ok {
		return nil
	}
	target := model.TaskStatusBlocked
	if task.Status == model.TaskStatusBlocked {
		target = model.TaskStatusTodo
	}

	e := m.engine
	load := m.LoadBoard()
	return func() tea.Msg {
		if _, err := e.Drop(context.Background(), task.ID, target); err != nil {
			return MoveFailedMsg{Err: err}
		}
		return load()
	}
}

func (m Model) currentColumn() (workflow.Column, bool) {
	if m.column >= len(m.board.Columns) {
		return workflow.Column{}, false
	}
	return m.board.Columns[m.column], true
}

func (m *Model) clampCursor() {
	if len(m.board.Columns) == 0 {
		m.column, m.row = 0, 0
		return
	}
	if m.column >= len(m.board.Columns) {
		m.column = len(m.board.Columns) - 1
	}
	col := m.board.Columns[m.column]
	if m.row >= len(col.Tasks) {
		m.row = len(col.Tasks) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// View renders the board columns side by side.
func (m Model) View() string {
	if m.searchMode {
		return m.searchInput.View() + "\n\n" + m.renderColumns()
	}
	return m.renderColumns()
}

func (m Model) renderColumns() string {
	if len(m.board.Columns) == 0 {
		return theme.HelpStyle.Render("No tasks yet. Press n to create one.")
	}

	colWidth := m.width/len(m.board.Columns) - 2
	if colWidth < 16 {
		colWidth = 16
	}
	colHeight := m.height - 4

	rendered := make([]string, 0, len(m.board.Columns))
	for i, col := range m.board.Columns {
		rendered = append(rendered, m.renderColumn(i, col, colWidth, colHeight))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderColumn(index int, col workflow.Column, width, height int) string {
	header := theme.StatusStyle(col.Status).
		Render(fmt.Sprintf("%s (%d)", col.Status, len(col.Tasks)))

	lines := []string{header}
	for i, task := range col.Tasks {
		lines = append(lines, m.renderCard(task, index == m.column && i == m.row, width-4))
	}

	style := theme.ColumnStyle
	if index == m.column {
		style = theme.FocusedColumnStyle
	}
	return style.
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(task model.Task, selected bool, width int) string {
	pri := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))
	title := task.Title
	if lipgloss.Width(title) > width-4 {
		title = title[:max(0, width-5)] + "…"
	}

	line := fmt.Sprintf("%s %s", pri, title)
	if task.Progress > 0 {
		line += theme.HelpStyle.Render(fmt.Sprintf(" %d%%", task.Progress))
	}

	if selected {
		return theme.SelectedCardStyle.Render(line)
	}
	return theme.CardStyle.Render(line)
}

// priorityLabel returns a short badge label for the given priority.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityUrgent:
		return "P1"
	case model.PriorityHigh:
		return "P2"
	case model.PriorityMedium:
		return "P3"
	case model.PriorityLow:
		return "P4"
	default:
		return "P?"
	}
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
}
