package expenses

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/keys"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/resource"
	"github.com/mtran/volunteer-hub/internal/theme"
)

// ExpensesLoadedMsg is sent when expenses have been loaded from the store.
type ExpensesLoadedMsg struct {
	Expenses []model.Expense
	Summary  model.ExpenseSummary
}

// DecisionResultMsg is sent after an approve/reject attempt.
type DecisionResultMsg struct {
	Err error
}

// Model is the expense review view component.
type Model struct {
	list     list.Model
	store    *resource.ExpenseStore
	keys     *keys.KeyMap
	eventID  string
	budget   int64
	summary  model.ExpenseSummary
	canJudge bool
	errText  string
	width    int
	height   int
}

// New creates a new expense view model. canJudge gates the approve and
// reject actions to organizer-level identities.
func New(s *resource.ExpenseStore, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-4)
	l.Title = "Expenses"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetScope points the view at one event and its budget, then reloads.
func (m *Model) SetScope(eventID string, budget int64) tea.Cmd {
	m.eventID = eventID
	m.budget = budget
	return m.LoadExpenses()
}

// SetCanJudge toggles the approve/reject actions.
func (m *Model) SetCanJudge(ok bool) { m.canJudge = ok }

// Init returns a command that loads the initial expense list.
func (m Model) Init() tea.Cmd {
	return m.LoadExpenses()
}

// LoadExpenses returns a command that reads the scoped expenses and
// their summary from the store.
func (m Model) LoadExpenses() tea.Cmd {
	s := m.store
	eventID := m.eventID
	budget := m.budget
	return func() tea.Msg {
		filter := resource.ExpenseFilter{}
		if eventID != "" {
			filter.EventID = &eventID
		}
		items, err := s.List(context.Background(), filter)
		if err != nil {
			return DecisionResultMsg{Err: err}
		}
		summary := model.ExpenseSummary{TotalBudget: budget, Remaining: budget}
		if eventID != "" {
			summary, err = s.Summary(context.Background(), eventID, budget)
			if err != nil {
				return DecisionResultMsg{Err: err}
			}
		}
		return ExpensesLoadedMsg{Expenses: items, Summary: summary}
	}
}

// Update handles messages for the expense view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ExpensesLoadedMsg:
		m.summary = msg.Summary
		m.errText = ""
		items := make([]list.Item, len(msg.Expenses))
		for i, e := range msg.Expenses {
			items[i] = ExpenseItem{Expense: e}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case DecisionResultMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		return m, m.LoadExpenses()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Approve):
			return m, m.decide(true)
		case key.Matches(msg, m.keys.Reject):
			return m, m.decide(false)
		case key.Matches(msg, m.keys.Refresh):
			return m, m.LoadExpenses()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// decide approves or rejects the selected pending expense.
func (m Model) decide(approve bool) tea.Cmd {
	if !m.canJudge {
		return nil
	}
	item, ok := m.list.SelectedItem().(ExpenseItem)
	if !ok {
		return nil
	}
	if item.Expense.Status != model.ExpenseStatusPending {
		return nil
	}

	s := m.store
	id := item.Expense.ID
	return func() tea.Msg {
		var err error
		if approve {
			_, err = s.Approve(context.Background(), id)
		} else {
			_, err = s.Reject(context.Background(), id)
		}
		return DecisionResultMsg{Err: err}
	}
}

// View renders the expense list with a budget summary line.
func (m Model) View() string {
	summaryLine := fmt.Sprintf(
		"spent %s of %s | pending %s | remaining %s",
		formatAmount(m.summary.TotalSpent),
		formatAmount(m.summary.TotalBudget),
		formatAmount(m.summary.PendingAmount),
		formatAmount(m.summary.Remaining),
	)
	header := theme.HelpStyle.Render(summaryLine)
	if m.errText != "" {
		header = lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Render(m.errText)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}
