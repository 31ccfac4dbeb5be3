package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtran/volunteer-hub/internal/authz"
	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/backend/local"
	"github.com/mtran/volunteer-hub/internal/backend/remote"
	"github.com/mtran/volunteer-hub/internal/credential"
	"github.com/mtran/volunteer-hub/internal/keys"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/resource"
	"github.com/mtran/volunteer-hub/internal/session"
	"github.com/mtran/volunteer-hub/internal/store"
	"github.com/mtran/volunteer-hub/internal/ui"
	"github.com/mtran/volunteer-hub/internal/ui/board"
	expensesview "github.com/mtran/volunteer-hub/internal/ui/expenses"
	feedbackview "github.com/mtran/volunteer-hub/internal/ui/feedback"
	helpview "github.com/mtran/volunteer-hub/internal/ui/help"
	notifview "github.com/mtran/volunteer-hub/internal/ui/notifications"
	"github.com/mtran/volunteer-hub/internal/ui/signin"
	"github.com/mtran/volunteer-hub/internal/ui/taskform"
	"github.com/mtran/volunteer-hub/internal/workflow"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewSignIn ViewState = iota
	ViewBoard
	ViewExpenses
	ViewFeedback
	ViewNotifications
	ViewTaskCreate
	ViewHelp
	ViewForbidden
)

// Model is the root Bubble Tea model that wires config, durable store,
// backend, session manager, resource stores, and the workflow engine,
// and routes between views.
type Model struct {
	cfg          *model.AppConfig
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	backend backend.Backend
	sess    *session.Manager
	seeded  bool

	tasks    *resource.TaskStore
	expenses *resource.ExpenseStore
	feedback *resource.FeedbackStore
	notifs   *resource.NotificationStore
	engine   *workflow.Engine

	boardView    board.Model
	signinView   signin.Model
	expensesView expensesview.Model
	feedbackView feedbackview.Model
	notifView    notifview.Model
	helpView     helpview.Model
	taskFormView taskform.Model

	initCmd     tea.Cmd
	ready       bool
	unreadCount int
	statusText  string
}

// New creates the root application model over the given config and
// durable store. The backend strategy is selected here, once: a
// configured remote URL selects the HTTP backend, otherwise everything
// runs against the local fallback.
func New(cfg *model.AppConfig, st store.Store) (Model, error) {
	var b backend.Backend
	if cfg.RemoteConfigured() {
		b = remote.New(cfg.Backend.URL, cfg.Backend.AnonKey)
	} else {
		lb, err := local.New(st)
		if err != nil {
			return Model{}, fmt.Errorf("initializing local backend: %w", err)
		}
		b = lb
	}

	sess := session.New(b, credential.NewTokenCache())
	seeded := !cfg.RemoteConfigured() && cfg.Storage.SeedDemoData
	actor := sess.Identity

	tasks := resource.NewTaskStore(b, actor, seeded)
	expenses := resource.NewExpenseStore(b, actor, seeded)
	feedback := resource.NewFeedbackStore(b, actor, seeded)
	engine := workflow.NewEngine(tasks)

	k := keys.DefaultKeyMap()
	sv := signin.New(80, 24)
	initCmd := sv.Start()

	return Model{
		cfg:          cfg,
		currentView:  ViewSignIn,
		keys:         k,
		backend:      b,
		sess:         sess,
		seeded:       seeded,
		tasks:        tasks,
		expenses:     expenses,
		feedback:     feedback,
		engine:       engine,
		boardView:    board.New(engine, k, 80, 24),
		signinView:   sv,
		expensesView: expensesview.New(expenses, k, 80, 24),
		feedbackView: feedbackview.New(feedback, k, 80, 24),
		notifView:    notifview.New(nil, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		taskFormView: taskform.New(80, 24),
		initCmd:      initCmd,
	}, nil
}

// Session exposes the session manager for the composition root.
func (m Model) Session() *session.Manager { return m.sess }

// Init starts the sign-in form, attempts to resume a cached session,
// and begins listening for session events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.initCmd,
		m.resumeSession(),
		m.waitForSessionEvent(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.boardView.SetSize(w, h)
		m.signinView.SetSize(w, h)
		m.expensesView.SetSize(w, h)
		m.feedbackView.SetSize(w, h)
		m.notifView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.taskFormView.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case sessionEventMsg:
		return m.handleSessionEvent(msg.event)

	case signInFailedMsg:
		m.signinView.SetError(msg.message)
		return m, m.signinView.Start()

	case signin.SubmitMsg:
		return m, tea.Batch(m.signIn(msg.Email, msg.Password), m.waitForSessionEvent())

	case signin.RegisterMsg:
		return m, tea.Batch(m.register(msg.Name, msg.Email, msg.Password), m.waitForSessionEvent())

	case signin.CancelMsg:
		// Nowhere to fall back to before authentication; restart the form.
		return m, m.signinView.Start()

	case taskform.TaskSubmittedMsg:
		m.currentView = ViewBoard
		return m, m.createTask(msg.Task)

	case taskform.CancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case taskCreatedMsg:
		if msg.err != nil {
			m.statusText = msg.err.Error()
			return m, nil
		}
		m.statusText = ""
		return m, m.boardView.LoadBoard()

	case board.SelectedTaskMsg:
		if task, err := m.tasks.Get(contextTODO(), msg.TaskID); err == nil {
			m.statusText = fmt.Sprintf("%s [%s] %d%%", task.Title, task.Status, task.Progress)
		}
		return m, nil

	case board.MoveFailedMsg:
		m.statusText = msg.Err.Error()
		var cmd tea.Cmd
		m.boardView, cmd = m.boardView.Update(msg)
		return m, cmd

	case notifview.ChangedMsg:
		if msg.Err != nil {
			m.statusText = msg.Err.Error()
			return m, nil
		}
		return m, tea.Batch(m.notifView.Load(), m.fetchUnreadCount())

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the focused
// view. Returns handled=false when the key should be delegated.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	// Forms own their keystrokes entirely.
	formFocused := m.currentView == ViewSignIn || m.currentView == ViewTaskCreate

	switch msg.String() {
	case "ctrl+c":
		return m, m.quit(), true

	case "q":
		if !formFocused && m.currentView != ViewHelp {
			return m, m.quit(), true
		}

	case "?":
		if formFocused {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "esc":
		if m.currentView == ViewHelp || m.currentView == ViewForbidden {
			m.currentView = m.previousView
			return m, nil, true
		}

	case "1":
		if !formFocused {
			return m.gateTo(ViewBoard, authz.RequireAuthenticated, m.boardView.LoadBoard())
		}

	case "2":
		if !formFocused {
			return m.gateTo(ViewExpenses, authz.RequireAuthenticated, m.expensesView.LoadExpenses())
		}

	case "3":
		if !formFocused {
			return m.gateTo(ViewFeedback, authz.RequireAuthenticated, m.feedbackView.Load())
		}

	case "4":
		if !formFocused {
			return m.gateTo(ViewNotifications, authz.RequireAuthenticated, m.notifView.Load())
		}

	case "n":
		if m.currentView == ViewBoard {
			m.previousView = m.currentView
			m.currentView = ViewTaskCreate
			return m, m.taskFormView.Start(""), true
		}

	case "ctrl+o":
		if !formFocused && m.sess.Identity() != nil {
			return m, m.signOut(), true
		}
	}

	return m, nil, false
}

// gateTo routes to view only when the authorization gate allows it.
func (m Model) gateTo(view ViewState, req authz.Requirement, onEnter tea.Cmd) (tea.Model, tea.Cmd, bool) {
	decision := authz.Evaluate(m.sess.Loading(), m.sess.Identity() != nil, m.sess.Role(), req)
	switch decision {
	case authz.Allowed:
		m.previousView = m.currentView
		m.currentView = view
		return m, onEnter, true
	case authz.Forbidden:
		m.previousView = m.currentView
		m.currentView = ViewForbidden
		return m, nil, true
	case authz.Unauthenticated:
		m.previousView = m.currentView
		m.currentView = ViewSignIn
		return m, m.signinView.Start(), true
	default:
		// Still resolving; stay put.
		return m, nil, true
	}
}

// handleSessionEvent reacts to session state changes published by the
// session manager.
func (m Model) handleSessionEvent(ev session.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case session.EventSignedIn:
		if m.notifs != nil {
			m.notifs.Close()
		}
		m.notifs = resource.NewNotificationStore(m.backend, m.sess.Identity, ev.Identity.ID, m.seeded)
		m.notifView.SetStore(m.notifs)
		m.expensesView.SetCanJudge(m.canJudge())
		m.statusText = ""
		m.currentView = ViewBoard
		return m, tea.Batch(
			m.boardView.LoadBoard(),
			m.fetchUnreadCount(),
			m.waitForSessionEvent(),
		)

	case session.EventSignedOut:
		if m.notifs != nil {
			m.notifs.Close()
			m.notifs = nil
			m.notifView.SetStore(nil)
		}
		m.unreadCount = 0
		m.expensesView.SetCanJudge(false)
		m.currentView = ViewSignIn
		return m, tea.Batch(m.signinView.Start(), m.waitForSessionEvent())

	case session.EventProfileUpdated:
		m.expensesView.SetCanJudge(m.canJudge())
		return m, m.waitForSessionEvent()
	}

	return m, m.waitForSessionEvent()
}

// canJudge reports whether the current identity may approve or reject
// expenses (organizer or admin).
func (m Model) canJudge() bool {
	decision := authz.Evaluate(m.sess.Loading(), m.sess.Identity() != nil, m.sess.Role(), authz.RequireOrganizer)
	return decision == authz.Allowed
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewSignIn:
		m.signinView, cmd = m.signinView.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewExpenses:
		m.expensesView, cmd = m.expensesView.Update(msg)
	case ViewFeedback:
		m.feedbackView, cmd = m.feedbackView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewTaskCreate:
		m.taskFormView, cmd = m.taskFormView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI inside the layout's chrome.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.layout.Frame(m.renderContent(), m.sessionStatus(), m.keyHints(), m.unreadCount)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewSignIn:
		return m.signinView.View()
	case ViewBoard:
		return m.boardView.View()
	case ViewExpenses:
		return m.expensesView.View()
	case ViewFeedback:
		return m.feedbackView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewTaskCreate:
		return m.taskFormView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewForbidden:
		return "You don't have access to that page. Press esc to go back."
	default:
		return ""
	}
}

// sessionStatus returns the header's right-aligned session summary.
func (m Model) sessionStatus() string {
	if m.sess.Loading() {
		return "signing in…"
	}
	identity := m.sess.Identity()
	if identity == nil {
		return "signed out"
	}
	if role := m.sess.Role(); role != nil {
		return fmt.Sprintf("%s (%s)", identity.Email, *role)
	}
	return identity.Email
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusText != "" {
		return m.statusText
	}

	switch m.currentView {
	case ViewSignIn:
		return "enter submit | esc reset"
	case ViewTaskCreate:
		return "enter submit | esc cancel"
	case ViewHelp:
		return "? close help | esc back"
	case ViewExpenses:
		hints := "j/k move | r refresh | esc back"
		if m.canJudge() {
			hints = "a approve | x reject | " + hints
		}
		return hints
	case ViewFeedback:
		return "j/k move | r refresh | esc back"
	case ViewNotifications:
		return "m mark read | M mark all | j/k move | esc back"
	case ViewForbidden:
		return "esc back"
	default:
		summary := m.boardView.FilterSummary()
		if summary != "" {
			return summary + " | / clear"
		}
		return "q quit | ? help | n new | / search | h/l column | H/L move card | b block"
	}
}
