package notifications

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/keys"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/resource"
	"github.com/mtran/volunteer-hub/internal/theme"
)

// LoadedMsg is sent when notifications have been loaded from the store.
type LoadedMsg struct {
	Notifications []model.Notification
	UnreadCount   int
}

// ChangedMsg is sent after a mark-read or delete completes so the root
// model can refresh its unread badge.
type ChangedMsg struct {
	Err error
}

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Notification.Title }

// ItemDelegate renders notification rows.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(Item)
	if !ok {
		return
	}

	n := ni.Notification
	marker := "●"
	if n.Read {
		marker = " "
	}
	kind := lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Render(n.Kind)

	line := fmt.Sprintf("%s %s %s — %s", marker, kind, n.Title, n.Message)
	if n.Read {
		line = theme.HelpStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedCardStyle.Render(line)
	} else {
		line = theme.CardStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the notification inbox view component.
type Model struct {
	list   list.Model
	store  *resource.NotificationStore
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new notification view model.
func New(s *resource.NotificationStore, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Notifications"
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

// SetStore swaps the underlying store. Used on sign-in, when the
// notification scope changes with the identity.
func (m *Model) SetStore(s *resource.NotificationStore) {
	m.store = s
}

// Init returns a command that loads the inbox.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a command that reads the inbox from the store.
func (m Model) Load() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if s == nil {
			return LoadedMsg{}
		}
		items, err := s.List(context.Background(), resource.NotificationFilter{})
		if err != nil {
			return ChangedMsg{Err: err}
		}
		unread, err := s.UnreadCount(context.Background())
		if err != nil {
			return ChangedMsg{Err: err}
		}
		return LoadedMsg{Notifications: items, UnreadCount: unread}
	}
}

// Update handles messages for the notification view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		items := make([]list.Item, len(msg.Notifications))
		for i, n := range msg.Notifications {
			items[i] = Item{Notification: n}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.MarkRead):
			return m, m.markSelectedRead()
		case key.Matches(msg, m.keys.MarkAllRead):
			return m, m.markAllRead()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.Load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) markSelectedRead() tea.Cmd {
	item, ok := m.list.SelectedItem().(Item)
	if !ok || m.store == nil {
		return nil
	}
	s := m.store
	id := item.Notification.ID
	return func() tea.Msg {
		_, err := s.MarkRead(context.Background(), id)
		return ChangedMsg{Err: err}
	}
}

func (m Model) markAllRead() tea.Cmd {
	if m.store == nil {
		return nil
	}
	s := m.store
	return func() tea.Msg {
		_, err := s.MarkAllRead(context.Background())
		return ChangedMsg{Err: err}
	}
}

// View renders the notification inbox.
func (m Model) View() string {
	return m.list.View()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
