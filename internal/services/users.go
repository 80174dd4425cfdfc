// ABOUTME: Admin user-management service: listing, role changes, removal

package services

import (
	"context"

	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/session"
)

// Users covers the admin user-management endpoints. The server enforces the
// real authorization; the client merely gates the views that reach here.
type Users struct {
	client *api.Client
	cache  *cache.Cache
	mut    *cache.Coordinator
}

func NewUsers(client *api.Client, c *cache.Cache, mut *cache.Coordinator) *Users {
	return &Users{client: client, cache: c, mut: mut}
}

// List reads the user listing. Result data is []session.User.
func (s *Users) List(ctx context.Context, p ListParams, opts cache.Options) (cache.Result, error) {
	key := cache.Key{Class: ClassUsers, Params: p.query()}
	return s.cache.Read(ctx, key, func(ctx context.Context) (any, error) {
		var users []session.User
		if err := s.client.Get(ctx, "/api/v1/users"+p.pathSuffix(), &users); err != nil {
			return nil, err
		}
		return users, nil
	}, opts)
}

// SetRole changes a user's role.
func (s *Users) SetRole(ctx context.Context, id int, role string) error {
	_, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "user.set-role",
		Invalidates: []string{ClassUsers},
		Message:     "User role updated",
		Op: func(ctx context.Context) (any, error) {
			body := struct {
				Role string `json:"role"`
			}{Role: role}
			return nil, s.client.Put(ctx, idPath("/api/v1/users", id)+"/role", body, nil)
		},
	})
	return err
}

// Delete removes a user account.
func (s *Users) Delete(ctx context.Context, id int) error {
	_, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "user.delete",
		Invalidates: []string{ClassUsers},
		Message:     "User deleted",
		Op: func(ctx context.Context) (any, error) {
			return nil, s.client.Delete(ctx, idPath("/api/v1/users", id), nil)
		},
	})
	return err
}
