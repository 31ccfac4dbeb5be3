package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/session"
)

// sessionTimeout bounds every session operation issued from the UI.
const sessionTimeout = 30 * time.Second

// sessionEventMsg carries a session manager event into the update loop.
type sessionEventMsg struct {
	event session.Event
}

// signInFailedMsg carries a display-safe auth failure message.
type signInFailedMsg struct {
	message string
}

// taskCreatedMsg reports the result of a task creation.
type taskCreatedMsg struct {
	err error
}

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// contextTODO returns the context for synchronous store reads issued
// directly from the update loop.
func contextTODO() context.Context {
	return context.Background()
}

// waitForSessionEvent blocks on the session event channel and converts
// the next event into a message. Re-issued after every received event.
func (m Model) waitForSessionEvent() tea.Cmd {
	events := m.sess.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return sessionEventMsg{event: ev}
	}
}

// resumeSession tries to restore a cached session. The outcome arrives
// as a session event; this command itself produces no message.
func (m Model) resumeSession() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
		defer cancel()
		sess.Resume(ctx)
		return nil
	}
}

// signIn verifies credentials. Success is observed via the session event
// channel; only failures produce a message here.
func (m Model) signIn(email, password string) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
		defer cancel()
		if err := sess.SignIn(ctx, email, password); err != nil {
			return signInFailedMsg{message: authMessage(err)}
		}
		return nil
	}
}

// register creates an account and signs it in.
func (m Model) register(name, email, password string) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
		defer cancel()
		reg := backend.Registration{Name: name, Email: email, Password: password}
		if err := sess.Register(ctx, reg); err != nil {
			return signInFailedMsg{message: authMessage(err)}
		}
		return nil
	}
}

// signOut clears the session. The resulting state change arrives as a
// session event.
func (m Model) signOut() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
		defer cancel()
		sess.SignOut(ctx)
		return nil
	}
}

// createTask stores a new task from the task form.
func (m Model) createTask(task model.Task) tea.Cmd {
	tasks := m.tasks
	return func() tea.Msg {
		_, err := tasks.Create(context.Background(), task)
		return taskCreatedMsg{err: err}
	}
}

// fetchUnreadCount queries the notification store for the unread badge.
func (m Model) fetchUnreadCount() tea.Cmd {
	notifs := m.notifs
	return func() tea.Msg {
		if notifs == nil {
			return unreadCountMsg{count: 0}
		}
		count, err := notifs.UnreadCount(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: count}
	}
}

// quit drains pending durable writes before exiting.
func (m Model) quit() tea.Cmd {
	m.tasks.Close()
	m.expenses.Close()
	m.feedback.Close()
	if m.notifs != nil {
		m.notifs.Close()
	}
	return tea.Quit
}

// authMessage extracts the display-safe message from an auth failure.
func authMessage(err error) string {
	var authErr *backend.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return err.Error()
}
