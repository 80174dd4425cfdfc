// ABOUTME: Tests for the session state machine
// ABOUTME: Covers startup resolution, login serialization, logout, and expiry

package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Games-on/arena-cli/internal/api"
)

// fakeAuth is a scriptable AuthAPI.
type fakeAuth struct {
	loginFn    func(ctx context.Context, email, password string) (*LoginResult, error)
	registerFn func(ctx context.Context, req RegisterRequest) (*User, error)
	accountFn  func(ctx context.Context) (*User, error)
	logoutFn   func(ctx context.Context) error

	accountCalls int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if f.loginFn == nil {
		return nil, errors.New("login not scripted")
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuth) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if f.registerFn == nil {
		return nil, errors.New("register not scripted")
	}
	return f.registerFn(ctx, req)
}

func (f *fakeAuth) Account(ctx context.Context) (*User, error) {
	f.accountCalls++
	if f.accountFn == nil {
		return nil, errors.New("account not scripted")
	}
	return f.accountFn(ctx)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	if f.logoutFn == nil {
		return nil
	}
	return f.logoutFn(ctx)
}

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	return NewTokenStore(filepath.Join(t.TempDir(), "credentials.json"))
}

func testUser() *User {
	return &User{ID: 1, Name: "Ada", Email: "ada@example.com", Role: RoleUser}
}

// subscribeInvariant asserts after every transition that an authenticated
// state always carries a user and every other state never does.
func subscribeInvariant(t *testing.T, m *Machine) {
	t.Helper()
	m.Subscribe(func(s Snapshot) {
		if s.State == StateAuthenticated {
			assert.NotNil(t, s.User, "authenticated snapshot without user")
		} else {
			assert.Nil(t, s.User, "user present outside authenticated state")
		}
		assert.Equal(t, s.User != nil, s.Authenticated())
	})
}

func TestInitialize_NoCredential_SkipsNetwork(t *testing.T) {
	auth := &fakeAuth{}
	m := New(auth, newTestStore(t))
	subscribeInvariant(t, m)

	m.Initialize(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Empty(t, snap.Err)
	assert.Equal(t, 0, auth.accountCalls, "no credential must mean no account call")
}

func TestInitialize_ValidCredential(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("tok"))

	auth := &fakeAuth{accountFn: func(ctx context.Context) (*User, error) {
		return testUser(), nil
	}}
	m := New(auth, store)
	subscribeInvariant(t, m)

	m.Initialize(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Ada", snap.User.Name)
}

func TestInitialize_AuthFailure_DropsCredential(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("stale-tok"))

	auth := &fakeAuth{accountFn: func(ctx context.Context) (*User, error) {
		return nil, &api.Error{Kind: api.KindAuth, Status: 401, Message: "expired"}
	}}
	m := New(auth, store)

	m.Initialize(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Empty(t, snap.Err, "a rejected credential is a clean logout, not an error state")
	assert.Empty(t, store.Token(), "rejected credential must be dropped")
}

func TestInitialize_TransientFailure_PreservesCredential(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("tok"))

	auth := &fakeAuth{accountFn: func(ctx context.Context) (*User, error) {
		return nil, &api.Error{Kind: api.KindNetwork, Message: "unreachable"}
	}}
	m := New(auth, store)

	m.Initialize(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.NotEmpty(t, snap.Err)
	assert.Equal(t, "tok", store.Token(), "outage must not destroy the credential")

	// The outage passes; a retry must succeed with the preserved credential.
	auth.accountFn = func(ctx context.Context) (*User, error) {
		return testUser(), nil
	}
	m.Retry(context.Background())
	assert.Equal(t, StateAuthenticated, m.Snapshot().State)
}

func TestInitialize_RunsOnce(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("tok"))

	auth := &fakeAuth{accountFn: func(ctx context.Context) (*User, error) {
		return testUser(), nil
	}}
	m := New(auth, store)

	m.Initialize(context.Background())
	m.Initialize(context.Background())
	assert.Equal(t, 1, auth.accountCalls)
}

func TestLogin_Success_PersistsCredential(t *testing.T) {
	store := newTestStore(t)
	auth := &fakeAuth{loginFn: func(ctx context.Context, email, password string) (*LoginResult, error) {
		assert.Equal(t, "ada@example.com", email)
		return &LoginResult{Token: "fresh-tok", User: testUser()}, nil
	}}
	m := New(auth, store)
	subscribeInvariant(t, m)

	var states []State
	m.Subscribe(func(s Snapshot) { states = append(states, s.State) })

	require.NoError(t, m.Login(context.Background(), "ada@example.com", "pw"))

	assert.Equal(t, "fresh-tok", store.Token())
	assert.Equal(t, StateAuthenticated, m.Snapshot().State)
	assert.Equal(t, []State{StateAuthenticating, StateAuthenticated}, states)
}

func TestLogin_Failure(t *testing.T) {
	store := newTestStore(t)
	auth := &fakeAuth{loginFn: func(ctx context.Context, email, password string) (*LoginResult, error) {
		return nil, &api.Error{Kind: api.KindAuth, Status: 401, Message: "bad credentials"}
	}}
	m := New(auth, store)
	subscribeInvariant(t, m)

	err := m.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Contains(t, snap.Err, "bad credentials")
	assert.Empty(t, store.Token())
}

func TestLogin_SecondAttemptRejectedWhileBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	auth := &fakeAuth{loginFn: func(ctx context.Context, email, password string) (*LoginResult, error) {
		close(started)
		<-release
		return &LoginResult{Token: "tok", User: testUser()}, nil
	}}
	m := New(auth, newTestStore(t))

	done := make(chan error, 1)
	go func() {
		done <- m.Login(context.Background(), "ada@example.com", "pw")
	}()
	<-started

	err := m.Login(context.Background(), "ada@example.com", "pw")
	assert.ErrorIs(t, err, ErrLoginInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateAuthenticated, m.Snapshot().State)
}

func TestLogout_RemoteFailureStillClears(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("tok"))

	auth := &fakeAuth{
		accountFn: func(ctx context.Context) (*User, error) { return testUser(), nil },
		logoutFn:  func(ctx context.Context) error { return errors.New("server down") },
	}
	m := New(auth, store)
	m.Initialize(context.Background())
	require.Equal(t, StateAuthenticated, m.Snapshot().State)

	m.Logout(context.Background())

	assert.Equal(t, StateUnauthenticated, m.Snapshot().State)
	assert.Empty(t, store.Token(), "logout clears locally even when the remote call fails")
}

func TestExpire_TearsDownOnce(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("tok"))

	auth := &fakeAuth{accountFn: func(ctx context.Context) (*User, error) { return testUser(), nil }}
	m := New(auth, store)
	m.Initialize(context.Background())

	var transitions int
	m.Subscribe(func(Snapshot) { transitions++ })

	m.Expire()
	m.Expire()

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Equal(t, "session expired", snap.Err)
	assert.Equal(t, 1, transitions, "repeated expiry must not re-fire transitions")
}

func TestRegister_LeavesSessionUnchanged(t *testing.T) {
	auth := &fakeAuth{registerFn: func(ctx context.Context, req RegisterRequest) (*User, error) {
		return &User{ID: 2, Name: req.Name, Email: req.Email, Role: RoleUser}, nil
	}}
	m := New(auth, newTestStore(t))
	m.Initialize(context.Background())
	before := m.Snapshot()

	user, err := m.Register(context.Background(), RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.Name)
	assert.Equal(t, before, m.Snapshot(), "registration must not touch the session")
}
