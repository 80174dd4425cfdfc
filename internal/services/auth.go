// ABOUTME: Auth endpoints of the tournament service
// ABOUTME: Implements the session machine's remote auth surface

package services

import (
	"context"

	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/session"
)

// Auth talks to the /auth endpoints. It satisfies session.AuthAPI; the
// session machine is its only caller.
type Auth struct {
	client *api.Client
}

func NewAuth(client *api.Client) *Auth {
	return &Auth{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginPayload tolerates both field spellings the service has used for the
// token.
type loginPayload struct {
	AccessToken      string        `json:"accessToken"`
	AccessTokenSnake string        `json:"access_token"`
	User             *session.User `json:"user"`
}

// Login authenticates and returns the credential and user the server issued.
// A response missing either is a broken contract and reported as an error,
// never treated as a success.
func (a *Auth) Login(ctx context.Context, email, password string) (*session.LoginResult, error) {
	var payload loginPayload
	if err := a.client.Post(ctx, "/api/v1/auth/login", loginRequest{Email: email, Password: password}, &payload); err != nil {
		return nil, err
	}

	token := payload.AccessToken
	if token == "" {
		token = payload.AccessTokenSnake
	}
	if token == "" {
		return nil, &api.Error{Kind: api.KindUnknown, Message: "login response carried no access token"}
	}
	if payload.User == nil {
		return nil, &api.Error{Kind: api.KindUnknown, Message: "login response carried no user"}
	}

	return &session.LoginResult{Token: token, User: payload.User}, nil
}

// Register creates an account and returns it. Whether registration also logs
// the user in is server policy; the client does not assume it does.
func (a *Auth) Register(ctx context.Context, req session.RegisterRequest) (*session.User, error) {
	var user session.User
	if err := a.client.Post(ctx, "/api/v1/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Account returns the current user ("who am I").
func (a *Auth) Account(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := a.client.Get(ctx, "/api/v1/auth/account", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout notifies the server. Best-effort; the session machine clears local
// state regardless of the outcome.
func (a *Auth) Logout(ctx context.Context) error {
	return a.client.Post(ctx, "/api/v1/auth/logout", nil, nil)
}
