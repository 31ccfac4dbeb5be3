package feedback

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/keys"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/resource"
	"github.com/mtran/volunteer-hub/internal/theme"
)

// LoadedMsg is sent when feedback entries have been loaded from the store.
type LoadedMsg struct {
	Entries []model.Feedback
	Stats   model.FeedbackStats
}

// LoadFailedMsg is sent when the store read fails.
type LoadFailedMsg struct {
	Err error
}

// Item wraps a model.Feedback so it can be used in a bubbles/list.
type Item struct {
	Feedback model.Feedback
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Feedback.Comment }

// ItemDelegate renders feedback rows.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single feedback row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	fi, ok := item.(Item)
	if !ok {
		return
	}

	f := fi.Feedback
	stars := strings.Repeat("★", f.Rating) + strings.Repeat("☆", 5-f.Rating)
	rating := lipgloss.NewStyle().
		Foreground(theme.ColorYellow).
		Render(stars)
	category := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(f.Category)

	recommend := ""
	if f.WouldRecommend {
		recommend = lipgloss.NewStyle().
			Foreground(theme.ColorGreen).
			Render(" ♥")
	}

	line := fmt.Sprintf("%s %s%s  %s", rating, category, recommend, f.Comment)

	if index == m.Index() {
		line = theme.SelectedCardStyle.Render(line)
	} else {
		line = theme.CardStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the feedback review view component.
type Model struct {
	list    list.Model
	store   *resource.FeedbackStore
	keys    *keys.KeyMap
	eventID string
	stats   model.FeedbackStats
	errText string
	width   int
	height  int
}

// New creates a new feedback view model.
func New(s *resource.FeedbackStore, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-4)
	l.Title = "Feedback"
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

// SetScope points the view at one event and reloads.
func (m *Model) SetScope(eventID string) tea.Cmd {
	m.eventID = eventID
	return m.Load()
}

// Init returns a command that loads the initial entries.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a command that reads the scoped feedback and its stats.
func (m Model) Load() tea.Cmd {
	s := m.store
	eventID := m.eventID
	return func() tea.Msg {
		filter := resource.FeedbackFilter{}
		if eventID != "" {
			filter.EventID = &eventID
		}
		entries, err := s.List(context.Background(), filter)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		stats := model.FeedbackStats{ByCategory: map[string]int{}}
		if eventID != "" {
			stats, err = s.Stats(context.Background(), eventID)
			if err != nil {
				return LoadFailedMsg{Err: err}
			}
		}
		return LoadedMsg{Entries: entries, Stats: stats}
	}
}

// Update handles messages for the feedback view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.stats = msg.Stats
		m.errText = ""
		items := make([]list.Item, len(msg.Entries))
		for i, f := range msg.Entries {
			items[i] = Item{Feedback: f}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case LoadFailedMsg:
		m.errText = msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.Load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the feedback list with a stats header.
func (m Model) View() string {
	if m.errText != "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.errText),
			m.list.View(),
		)
	}

	header := ""
	if m.stats.Count > 0 {
		header = theme.HelpStyle.Render(fmt.Sprintf(
			"%d responses | avg %.1f | %.0f%% would recommend",
			m.stats.Count,
			m.stats.AverageRating,
			m.stats.RecommendRate*100,
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}
