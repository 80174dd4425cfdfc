// ABOUTME: Finite-state model of the current user's authentication status
// ABOUTME: Owns all session transitions; no other component mutates session state

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Games-on/arena-cli/internal/api"
)

// State is the authentication status of the process-wide session.
type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User roles as the service reports them.
const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleUser      = "USER"
)

// User is the immutable account snapshot returned by the service. It is
// replaced wholesale on each successful auth resolution, never patched.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Snapshot is a point-in-time copy of the session handed to views; mutating
// it has no effect on the machine.
type Snapshot struct {
	State State
	User  *User
	Err   string
}

// Authenticated reports whether a user is present. This is the one
// authoritative definition; it can never disagree with User being set.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// Loading reports whether the session has not finished resolving.
func (s Snapshot) Loading() bool {
	return s.State == StateInitializing || s.State == StateAuthenticating
}

// LoginResult is what a successful login must yield: both a credential and a
// user. Absence of either is a contract violation, not a success.
type LoginResult struct {
	Token string
	User  *User
}

// RegisterRequest carries the fields for account creation.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthAPI is the remote auth surface the machine drives. Implemented by
// services.Auth over the transport.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Account(ctx context.Context) (*User, error)
	Logout(ctx context.Context) error
}

// ErrLoginInFlight is returned when a login is attempted while another is
// still resolving. Interleaved partial results must never reach the session.
var ErrLoginInFlight = errors.New("a login attempt is already in progress")

// Machine owns the session. Transitions apply atomically under a single
// mutex, so two transitions never interleave; network calls happen outside
// the lock with a state guard, which is what allows a 401-triggered expiry
// arriving mid-call to be applied in order rather than lost.
type Machine struct {
	auth   AuthAPI
	tokens *TokenStore

	mu          sync.Mutex
	state       State
	user        *User
	err         string
	initialized bool
	loginBusy   bool
	listeners   []func(Snapshot)
}

// New creates a session machine in the INITIALIZING state.
func New(auth AuthAPI, tokens *TokenStore) *Machine {
	return &Machine{
		auth:   auth,
		tokens: tokens,
		state:  StateInitializing,
	}
}

// Subscribe registers a listener invoked after every transition with the new
// snapshot. Used by the TUI to re-render on session changes.
func (m *Machine) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Snapshot returns the current session state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{State: m.state, User: m.user, Err: m.err}
}

// Initialize resolves the session at process start. It runs at most once;
// later calls are no-ops. With no stored credential the machine goes straight
// to UNAUTHENTICATED without touching the network. With one, the account
// endpoint decides: success authenticates; an auth failure drops the
// credential; any other failure (a transient outage) preserves the credential
// and leaves the session in an errored, retryable UNAUTHENTICATED state.
func (m *Machine) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.initialized = true

	if m.tokens.Token() == "" {
		m.applyLocked(StateUnauthenticated, nil, "")
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	user, err := m.auth.Account(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		if api.IsKind(err, api.KindAuth) {
			// Transport already cleared the credential; make sure.
			m.tokens.Clear()
			m.applyLocked(StateUnauthenticated, nil, "")
			return
		}
		slog.Warn("session restore failed, credential preserved", "error", err)
		m.applyLocked(StateUnauthenticated, nil, err.Error())
		return
	}

	m.applyLocked(StateAuthenticated, user, "")
}

// Retry re-runs initialization after a transient startup failure.
func (m *Machine) Retry(ctx context.Context) {
	m.mu.Lock()
	m.initialized = false
	m.mu.Unlock()
	m.Initialize(ctx)
}

// Login authenticates with the service. On success the credential is
// persisted and the session becomes AUTHENTICATED. On failure the session is
// UNAUTHENTICATED carrying the error; any pre-existing credential is left
// untouched. A second concurrent attempt is rejected with ErrLoginInFlight.
func (m *Machine) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	if m.loginBusy {
		m.mu.Unlock()
		return ErrLoginInFlight
	}
	m.loginBusy = true
	m.applyLocked(StateAuthenticating, m.user, "")
	m.mu.Unlock()

	result, err := m.auth.Login(ctx, email, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginBusy = false

	if err != nil {
		m.applyLocked(StateUnauthenticated, nil, err.Error())
		return err
	}

	if err := m.tokens.Set(result.Token); err != nil {
		m.applyLocked(StateUnauthenticated, nil, err.Error())
		return err
	}

	m.applyLocked(StateAuthenticated, result.User, "")
	return nil
}

// Register creates an account. The server decides whether registration also
// authenticates; this client does not assume so, and the session is left
// unchanged. The created account is returned to the caller.
func (m *Machine) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	return m.auth.Register(ctx, req)
}

// Logout clears the credential and reaches UNAUTHENTICATED unconditionally.
// The remote logout call is best-effort: its failure is logged, never
// surfaced, and never blocks the client-side guarantee.
func (m *Machine) Logout(ctx context.Context) {
	if err := m.auth.Logout(ctx); err != nil {
		slog.Debug("remote logout failed", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens.Clear()
	m.applyLocked(StateUnauthenticated, nil, "")
}

// Expire tears the session down after a server-declared expiry. Wired to the
// transport's 401 hook; the credential is already cleared when this runs.
func (m *Machine) Expire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil && m.state == StateUnauthenticated {
		return
	}
	m.applyLocked(StateUnauthenticated, nil, "session expired")
}

// applyLocked performs a transition. user and authenticated move together
// here and nowhere else, which is what upholds the invariant that
// Authenticated() == (User != nil) after every transition.
func (m *Machine) applyLocked(state State, user *User, errMsg string) {
	if state != StateAuthenticated {
		user = nil
	} else {
		errMsg = ""
	}
	m.state = state
	m.user = user
	m.err = errMsg

	snap := m.snapshotLocked()
	slog.Debug("session transition", "state", state, "authenticated", snap.Authenticated())
	for _, fn := range m.listeners {
		fn(snap)
	}
}
