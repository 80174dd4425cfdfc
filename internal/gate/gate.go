// ABOUTME: Capability gate deciding whether a view may be shown for a session
// ABOUTME: One pure decision table replacing scattered per-route role checks

package gate

import (
	"github.com/Games-on/arena-cli/internal/session"
)

// Kind enumerates the access rules a view can declare.
type Kind int

const (
	// KindPublic views are always reachable.
	KindPublic Kind = iota
	// KindAuthenticated views require a resolved, authenticated session.
	KindAuthenticated
	// KindAuthenticatedReversed views are only for anonymous visitors
	// (login, register); authenticated users are sent to the dashboard.
	KindAuthenticatedReversed
	// KindRoleIn views require an authenticated session whose role is a
	// member of the requirement's role set.
	KindRoleIn
)

// Requirement is the declarative access rule attached to a view.
type Requirement struct {
	Kind  Kind
	Roles []string
}

func Public() Requirement { return Requirement{Kind: KindPublic} }

func Authenticated() Requirement { return Requirement{Kind: KindAuthenticated} }

func AuthenticatedReversed() Requirement { return Requirement{Kind: KindAuthenticatedReversed} }

func RoleIn(roles ...string) Requirement { return Requirement{Kind: KindRoleIn, Roles: roles} }

// Action is the gate's verdict.
type Action int

const (
	// ActionAllow renders the view.
	ActionAllow Action = iota
	// ActionWait renders a neutral loading state; the session has not
	// finished resolving and redirecting now would bounce a valid user.
	ActionWait
	// ActionRedirect navigates to Decision.Route instead.
	ActionRedirect
)

// Well-known redirect targets.
const (
	RouteLogin     = "login"
	RouteDashboard = "dashboard"
)

// Decision is the result of evaluating a requirement against a session.
type Decision struct {
	Action Action
	Route  string
}

func allow() Decision { return Decision{Action: ActionAllow} }

func wait() Decision { return Decision{Action: ActionWait} }

func redirect(to string) Decision { return Decision{Action: ActionRedirect, Route: to} }

// Evaluate applies the decision table. It is pure: same inputs, same verdict,
// no side effects, which is what makes the policy testable apart from
// rendering.
func Evaluate(snap session.Snapshot, req Requirement) Decision {
	if req.Kind == KindPublic {
		return allow()
	}

	if snap.Loading() {
		return wait()
	}

	switch req.Kind {
	case KindAuthenticated:
		if !snap.Authenticated() {
			return redirect(RouteLogin)
		}
		return allow()

	case KindAuthenticatedReversed:
		if snap.Authenticated() {
			return redirect(RouteDashboard)
		}
		return allow()

	case KindRoleIn:
		if !snap.Authenticated() {
			return redirect(RouteLogin)
		}
		for _, role := range req.Roles {
			if snap.User.Role == role {
				return allow()
			}
		}
		return redirect(RouteDashboard)

	default:
		// Unknown requirement kinds fail closed.
		return redirect(RouteLogin)
	}
}
