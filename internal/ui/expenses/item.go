package expenses

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/theme"
)

// ExpenseItem wraps a model.Expense so it can be used in a bubbles/list.
type ExpenseItem struct {
	Expense model.Expense
}

// FilterValue returns the string used for fuzzy filtering.
func (i ExpenseItem) FilterValue() string { return i.Expense.Description }

// Title returns the expense description for the list.
func (i ExpenseItem) Title() string { return i.Expense.Description }

// Description returns a short summary line for the list.
func (i ExpenseItem) Description() string {
	return fmt.Sprintf("%s | %s | %s",
		i.Expense.Category,
		formatAmount(i.Expense.Amount),
		relativeTime(i.Expense.UpdatedAt),
	)
}

// ItemDelegate implements list.ItemDelegate for rendering expense rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single expense row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(ExpenseItem)
	if !ok {
		return
	}

	e := ei.Expense
	statusBadge := theme.ExpenseStatusStyle(e.Status).Render(e.Status)
	amount := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render(formatAmount(e.Amount))
	category := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(e.Category)

	line := fmt.Sprintf("%s %s %s  %s  %s",
		statusBadge, amount, e.Description, category,
		theme.HelpStyle.Render(relativeTime(e.UpdatedAt)),
	)

	if index == m.Index() {
		line = theme.SelectedCardStyle.Render(line)
	} else {
		line = theme.CardStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// formatAmount renders an amount in cents as a dollar string.
func formatAmount(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
