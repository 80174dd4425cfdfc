// ABOUTME: Root bubbletea model for the arena TUI
// ABOUTME: Routes between screens, gating every navigation through the capability gate

package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/gate"
	"github.com/Games-on/arena-cli/internal/notify"
	"github.com/Games-on/arena-cli/internal/session"
	"github.com/Games-on/arena-cli/internal/tui/styles"
)

// Route identifies a screen. Every route declares a capability requirement;
// navigation consults the gate, never the session directly.
type Route int

const (
	RouteMenu Route = iota
	RouteLogin
	RouteRegister
	RouteTournaments
	RouteTournamentDetail
	RouteNews
	RouteNewsDetail
	RouteDashboard
	RouteAdmin
)

func requirementFor(r Route) gate.Requirement {
	switch r {
	case RouteLogin, RouteRegister:
		return gate.AuthenticatedReversed()
	case RouteDashboard:
		return gate.Authenticated()
	case RouteAdmin:
		return gate.RoleIn(session.RoleAdmin, session.RoleOrganizer)
	default:
		return gate.Public()
	}
}

func routeFor(name string) Route {
	switch name {
	case gate.RouteLogin:
		return RouteLogin
	case gate.RouteDashboard:
		return RouteDashboard
	default:
		return RouteMenu
	}
}

// sessionChangedMsg is sent whenever the session machine transitions.
type sessionChangedMsg struct {
	snap session.Snapshot
}

// noteMsg carries a notification into the status bar.
type noteMsg struct {
	note notify.Notification
}

// App is the root model for the TUI.
type App struct {
	backend *app.App
	route   Route
	width   int
	height  int
	snap    session.Snapshot

	sessionEvents chan session.Snapshot
	notes         chan notify.Notification
	toast         *notify.Notification

	login       *loginScreen
	register    *registerScreen
	tournaments *tournamentsScreen
	detail      *tournamentDetailScreen
	news        *newsScreen
	newsDetail  *newsDetailScreen
	dashboard   *dashboardScreen
	admin       *adminScreen
}

// New creates the TUI over an already-wired component graph. It registers
// itself as the notification surface and session listener.
func New(backend *app.App) *App {
	a := &App{
		backend:       backend,
		route:         RouteMenu,
		snap:          backend.Session.Snapshot(),
		sessionEvents: make(chan session.Snapshot, 16),
		notes:         make(chan notify.Notification, 16),
	}

	backend.Notifier.AddSink(func(n notify.Notification) {
		select {
		case a.notes <- n:
		default:
		}
	})
	backend.Session.Subscribe(func(s session.Snapshot) {
		select {
		case a.sessionEvents <- s:
		default:
		}
	})

	a.login = newLoginScreen(backend)
	a.register = newRegisterScreen(backend)
	a.tournaments = newTournamentsScreen(backend)
	a.detail = newTournamentDetailScreen(backend)
	a.news = newNewsScreen(backend)
	a.newsDetail = newNewsDetailScreen(backend)
	a.dashboard = newDashboardScreen(backend)
	a.admin = newAdminScreen(backend)

	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.resolveSession(),
		a.waitForSessionEvent(),
		a.waitForNote(),
	)
}

// resolveSession drives the startup auth resolution off the UI goroutine.
func (a *App) resolveSession() tea.Cmd {
	return func() tea.Msg {
		a.backend.Session.Initialize(context.Background())
		return sessionChangedMsg{snap: a.backend.Session.Snapshot()}
	}
}

func (a *App) waitForSessionEvent() tea.Cmd {
	return func() tea.Msg {
		return sessionChangedMsg{snap: <-a.sessionEvents}
	}
}

func (a *App) waitForNote() tea.Cmd {
	return func() tea.Msg {
		return noteMsg{note: <-a.notes}
	}
}

// Navigate evaluates the target route's requirement and either switches to
// it, stays put while the session is resolving, or follows the redirect.
func (a *App) Navigate(target Route) tea.Cmd {
	decision := gate.Evaluate(a.snap, requirementFor(target))
	switch decision.Action {
	case gate.ActionWait:
		// Session still resolving; render the neutral waiting state
		// rather than bouncing the user.
		return nil
	case gate.ActionRedirect:
		target = routeFor(decision.Route)
	}

	a.route = target
	return a.enterRoute(target)
}

func (a *App) enterRoute(r Route) tea.Cmd {
	switch r {
	case RouteLogin:
		return a.login.Enter()
	case RouteRegister:
		return a.register.Enter()
	case RouteTournaments:
		return a.tournaments.Enter()
	case RouteTournamentDetail:
		return a.detail.Enter()
	case RouteNews:
		return a.news.Enter()
	case RouteNewsDetail:
		return a.newsDetail.Enter()
	case RouteDashboard:
		return a.dashboard.Enter(a.snap)
	case RouteAdmin:
		return a.admin.Enter()
	default:
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case sessionChangedMsg:
		a.snap = msg.snap
		// Re-check the current screen: a session expiry mid-view must
		// bounce the user off a gated screen exactly once.
		if d := gate.Evaluate(a.snap, requirementFor(a.route)); d.Action == gate.ActionRedirect {
			a.route = routeFor(d.Route)
			return a, tea.Batch(a.enterRoute(a.route), a.waitForSessionEvent())
		}
		return a, a.waitForSessionEvent()

	case noteMsg:
		a.toast = &msg.note
		return a, a.waitForNote()

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}
	}

	return a, a.updateScreen(msg)
}

func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// Text-entry screens own their keys except ctrl+c.
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if a.route == RouteLogin || a.route == RouteRegister {
		if msg.String() == "esc" {
			return a.Navigate(RouteMenu), true
		}
		return nil, false
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "esc":
		return a.Navigate(RouteMenu), true
	case "t":
		return a.Navigate(RouteTournaments), true
	case "n":
		return a.Navigate(RouteNews), true
	case "d":
		return a.Navigate(RouteDashboard), true
	case "a":
		return a.Navigate(RouteAdmin), true
	case "l":
		if a.snap.Authenticated() {
			return func() tea.Msg {
				a.backend.Session.Logout(context.Background())
				return sessionChangedMsg{snap: a.backend.Session.Snapshot()}
			}, true
		}
		return a.Navigate(RouteLogin), true
	case "r":
		if !a.snap.Authenticated() {
			return a.Navigate(RouteRegister), true
		}
	}
	return nil, false
}

func (a *App) updateScreen(msg tea.Msg) tea.Cmd {
	switch a.route {
	case RouteLogin:
		return a.login.Update(msg, a)
	case RouteRegister:
		return a.register.Update(msg, a)
	case RouteTournaments:
		return a.tournaments.Update(msg, a)
	case RouteTournamentDetail:
		return a.detail.Update(msg, a)
	case RouteNews:
		return a.news.Update(msg, a)
	case RouteNewsDetail:
		return a.newsDetail.Update(msg, a)
	case RouteDashboard:
		return a.dashboard.Update(msg, a)
	case RouteAdmin:
		return a.admin.Update(msg, a)
	default:
		return nil
	}
}

func (a *App) View() string {
	var body string
	if a.snap.Loading() && a.route != RouteMenu {
		body = styles.Dim.Render("Resolving session...")
	} else {
		body = a.viewScreen()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.headerView(),
		body,
		a.statusView(),
	)
}

func (a *App) viewScreen() string {
	switch a.route {
	case RouteLogin:
		return a.login.View()
	case RouteRegister:
		return a.register.View()
	case RouteTournaments:
		return a.tournaments.View()
	case RouteTournamentDetail:
		return a.detail.View()
	case RouteNews:
		return a.news.View()
	case RouteNewsDetail:
		return a.newsDetail.View()
	case RouteDashboard:
		return a.dashboard.View(a.snap)
	case RouteAdmin:
		return a.admin.View()
	default:
		return a.menuView()
	}
}

func (a *App) menuView() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Arena"))
	b.WriteString("\n")
	b.WriteString("  t  Tournaments\n")
	b.WriteString("  n  News\n")
	if a.snap.Authenticated() {
		b.WriteString("  d  Dashboard\n")
		if a.snap.User.Role == session.RoleAdmin || a.snap.User.Role == session.RoleOrganizer {
			b.WriteString("  a  Admin panel\n")
		}
		b.WriteString("  l  Log out\n")
	} else {
		b.WriteString("  l  Log in\n")
		b.WriteString("  r  Register\n")
	}
	b.WriteString(styles.Help.Render("q quit"))
	return b.String()
}

func (a *App) headerView() string {
	who := "anonymous"
	if a.snap.Authenticated() {
		who = a.snap.User.Name + " (" + a.snap.User.Role + ")"
	} else if a.snap.Loading() {
		who = "..."
	}
	return styles.StatusBar.Width(max(a.width, 40)).Render("arena | " + who)
}

func (a *App) statusView() string {
	if a.toast == nil {
		return ""
	}
	switch a.toast.Level {
	case notify.LevelError:
		return styles.ErrorText.Render(a.toast.Message)
	case notify.LevelSuccess:
		return styles.SuccessText.Render(a.toast.Message)
	default:
		return styles.Dim.Render(a.toast.Message)
	}
}
