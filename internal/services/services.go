// ABOUTME: Aggregates the resource services over one transport, cache, and coordinator

package services

import (
	"context"

	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/cache"
)

// Registry bundles every resource service. All of them share one transport,
// one cache, and one mutation coordinator, which is what keeps list and
// detail views consistent across the client.
type Registry struct {
	Auth        *Auth
	Tournaments *Tournaments
	Teams       *Teams
	Matches     *Matches
	News        *NewsService
	Users       *Users

	client *api.Client
}

func NewRegistry(client *api.Client, c *cache.Cache, mut *cache.Coordinator) *Registry {
	return &Registry{
		Auth:        NewAuth(client),
		Tournaments: NewTournaments(client, c, mut),
		Teams:       NewTeams(client, c, mut),
		Matches:     NewMatches(client, c, mut),
		News:        NewNews(client, c, mut),
		Users:       NewUsers(client, c, mut),
		client:      client,
	}
}

// Health probes the service's health endpoint.
func (r *Registry) Health(ctx context.Context) error {
	return r.client.Get(ctx, "/health", nil)
}
