// ABOUTME: Decision-table tests for the capability gate

package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Games-on/arena-cli/internal/session"
)

func loading() session.Snapshot {
	return session.Snapshot{State: session.StateInitializing}
}

func anonymous() session.Snapshot {
	return session.Snapshot{State: session.StateUnauthenticated}
}

func loggedIn(role string) session.Snapshot {
	return session.Snapshot{
		State: session.StateAuthenticated,
		User:  &session.User{ID: 1, Name: "Ada", Role: role},
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name string
		snap session.Snapshot
		req  Requirement
		want Decision
	}{
		{"public always allowed", anonymous(), Public(), Decision{Action: ActionAllow}},
		{"public allowed while loading", loading(), Public(), Decision{Action: ActionAllow}},

		{"auth waits while loading", loading(), Authenticated(), Decision{Action: ActionWait}},
		{"auth redirects anonymous to login", anonymous(), Authenticated(), Decision{Action: ActionRedirect, Route: RouteLogin}},
		{"auth allows logged-in", loggedIn(session.RoleUser), Authenticated(), Decision{Action: ActionAllow}},

		{"reversed waits while loading", loading(), AuthenticatedReversed(), Decision{Action: ActionWait}},
		{"reversed allows anonymous", anonymous(), AuthenticatedReversed(), Decision{Action: ActionAllow}},
		{"reversed bounces logged-in to dashboard", loggedIn(session.RoleUser), AuthenticatedReversed(), Decision{Action: ActionRedirect, Route: RouteDashboard}},

		{"role waits while loading", loading(), RoleIn(session.RoleAdmin), Decision{Action: ActionWait}},
		{"role redirects anonymous to login", anonymous(), RoleIn(session.RoleAdmin), Decision{Action: ActionRedirect, Route: RouteLogin}},
		{"role allows member", loggedIn(session.RoleAdmin), RoleIn(session.RoleAdmin, session.RoleOrganizer), Decision{Action: ActionAllow}},
		{"role allows any listed role", loggedIn(session.RoleOrganizer), RoleIn(session.RoleAdmin, session.RoleOrganizer), Decision{Action: ActionAllow}},
		{"role bounces non-member to dashboard", loggedIn(session.RoleUser), RoleIn(session.RoleAdmin), Decision{Action: ActionRedirect, Route: RouteDashboard}},

		{"unknown kind fails closed", loggedIn(session.RoleAdmin), Requirement{Kind: Kind(99)}, Decision{Action: ActionRedirect, Route: RouteLogin}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.snap, tc.req))
		})
	}
}

// The gate must never consult anything but the snapshot it is handed; the
// same inputs always produce the same verdict.
func TestEvaluate_Pure(t *testing.T) {
	snap := loggedIn(session.RoleUser)
	req := RoleIn(session.RoleAdmin)
	first := Evaluate(snap, req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(snap, req))
	}
}
