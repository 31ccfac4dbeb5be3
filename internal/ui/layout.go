package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/volunteer-hub/internal/theme"
)

// chromeRows is the height the frame spends on itself: one header row
// and one status bar row.
const chromeRows = 2

// Layout sizes the terminal frame and renders the chrome around the
// active view: the brand header with the unread-notification badge and
// session summary, and the key-hint status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the width available to the active view.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available to the active view.
func (l Layout) ContentHeight() int {
	return l.Height - chromeRows
}

// Frame renders the full screen around the active view's content.
func (l Layout) Frame(content, sessionStatus, hints string, unread int) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		l.header(sessionStatus, unread),
		content,
		l.statusBar(hints),
	)
}

func (l Layout) header(sessionStatus string, unread int) string {
	brand := "VolunteerHub"
	if unread > 0 {
		brand = fmt.Sprintf("VolunteerHub · %d unread", unread)
	}

	left := theme.HeaderStyle.Render(brand)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(sessionStatus)
	return l.fillBetween(left, right, theme.HeaderStyle)
}

func (l Layout) statusBar(hints string) string {
	return l.fillBetween(theme.StatusBarStyle.Render(hints), "", theme.StatusBarStyle)
}

// fillBetween pads the gap between left and right with the bar's own
// background so the row spans the full terminal width.
func (l Layout) fillBetween(left, right string, bar lipgloss.Style) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	fill := bar.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(bar.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, fill, right)
}
