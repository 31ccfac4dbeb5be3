package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down  key.Binding
	Up    key.Binding
	Left  key.Binding
	Right key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Board actions
	New       key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Block     key.Binding

	// Views
	Board         key.Binding
	Expenses      key.Binding
	Feedback      key.Binding
	Notifications key.Binding

	// Expense actions
	Approve key.Binding
	Reject  key.Binding

	// Notification actions
	MarkRead    key.Binding
	MarkAllRead key.Binding

	// Priority filter cycle
	CyclePriority key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next column"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "move card left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "move card right"),
		),
		Block: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "block/unblock"),
		),
		Board: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "board"),
		),
		Expenses: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "expenses"),
		),
		Feedback: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "feedback"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "notifications"),
		),
		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve"),
		),
		Reject: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reject"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "mark all read"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle priority filter"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Left, k.Right,
		k.Select, k.Back, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Back, k.Quit},
		{k.Board, k.Expenses, k.Feedback, k.Notifications},
		{k.New, k.MoveLeft, k.MoveRight, k.Block, k.CyclePriority},
		{k.Approve, k.Reject, k.MarkRead, k.MarkAllRead, k.Search, k.Refresh, k.Help},
	}
}
