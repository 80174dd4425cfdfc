// ABOUTME: Tournament resource service: cached reads and coordinated writes
// ABOUTME: Every write declares which cached listings it stales

package services

import (
	"context"
	"fmt"

	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/cache"
)

// Tournaments covers the tournament endpoints, the public and admin listing
// caches, and the knockout lifecycle operations.
type Tournaments struct {
	client *api.Client
	cache  *cache.Cache
	mut    *cache.Coordinator
}

func NewTournaments(client *api.Client, c *cache.Cache, mut *cache.Coordinator) *Tournaments {
	return &Tournaments{client: client, cache: c, mut: mut}
}

// CreateTournamentRequest creates or updates a tournament.
type CreateTournamentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Format      string `json:"format,omitempty"`
	MaxTeams    int    `json:"maxTeams,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

func (s *Tournaments) fetchPage(path string) cache.Fetcher {
	return func(ctx context.Context) (any, error) {
		resp, err := s.client.Do(ctx, "GET", path, nil)
		if err != nil {
			return nil, err
		}
		page := &TournamentPage{}
		if err := resp.Decode(&page.Items); err != nil {
			return nil, err
		}
		if len(resp.Pagination) > 0 {
			if err := resp.DecodePagination(&page.Pagination); err != nil {
				return nil, err
			}
		}
		return page, nil
	}
}

// List reads the public tournament listing. Result data is *TournamentPage.
func (s *Tournaments) List(ctx context.Context, p ListParams, opts cache.Options) (cache.Result, error) {
	key := cache.Key{Class: ClassTournaments, Params: p.query()}
	return s.cache.Read(ctx, key, s.fetchPage("/api/tournaments"+p.pathSuffix()), opts)
}

// AdminList reads the tournament listing for the admin panel, cached apart
// from the public listing. Result data is *TournamentPage.
func (s *Tournaments) AdminList(ctx context.Context, p ListParams, opts cache.Options) (cache.Result, error) {
	key := cache.Key{Class: ClassAdminTournaments, Params: p.query()}
	return s.cache.Read(ctx, key, s.fetchPage("/api/tournaments"+p.pathSuffix()), opts)
}

// Get reads one tournament. Result data is *Tournament.
func (s *Tournaments) Get(ctx context.Context, id int) (cache.Result, error) {
	key := cache.Key{Class: ClassTournament, Params: fmt.Sprintf("id=%d", id)}
	path := idPath("/api/tournaments", id)
	return s.cache.Read(ctx, key, func(ctx context.Context) (any, error) {
		t := &Tournament{}
		if err := s.client.Get(ctx, path, t); err != nil {
			return nil, err
		}
		return t, nil
	}, cache.Options{})
}

// tournamentBlastRadius is what any tournament write stales: both listings
// plus the detail class.
var tournamentBlastRadius = []string{ClassAdminTournaments, ClassTournaments, ClassTournament}

// Create creates a tournament.
func (s *Tournaments) Create(ctx context.Context, req CreateTournamentRequest) (*Tournament, error) {
	t := &Tournament{}
	result, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "tournament.create",
		Invalidates: tournamentBlastRadius,
		Message:     "Tournament created",
		Op: func(ctx context.Context) (any, error) {
			if err := s.client.Post(ctx, "/api/tournaments", req, t); err != nil {
				return nil, err
			}
			return t, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Data.(*Tournament), nil
}

// Update replaces a tournament's fields.
func (s *Tournaments) Update(ctx context.Context, id int, req CreateTournamentRequest) (*Tournament, error) {
	t := &Tournament{}
	result, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "tournament.update",
		Invalidates: tournamentBlastRadius,
		Message:     "Tournament updated",
		Op: func(ctx context.Context) (any, error) {
			if err := s.client.Put(ctx, idPath("/api/tournaments", id), req, t); err != nil {
				return nil, err
			}
			return t, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Data.(*Tournament), nil
}

// Delete removes a tournament.
func (s *Tournaments) Delete(ctx context.Context, id int) error {
	_, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "tournament.delete",
		Invalidates: tournamentBlastRadius,
		Message:     "Tournament deleted",
		Op: func(ctx context.Context) (any, error) {
			return nil, s.client.Delete(ctx, idPath("/api/tournaments", id), nil)
		},
	})
	return err
}

// lifecycle posts a tournament lifecycle transition endpoint.
func (s *Tournaments) lifecycle(ctx context.Context, id int, action, name, message string) error {
	_, err := s.mut.Do(ctx, cache.Mutation{
		Name:        name,
		Invalidates: append([]string{ClassMatches, ClassBracket, ClassAdminMatches}, tournamentBlastRadius...),
		Message:     message,
		Op: func(ctx context.Context) (any, error) {
			return nil, s.client.Post(ctx, idPath("/api/tournaments", id)+"/"+action, nil, nil)
		},
	})
	return err
}

// Start opens a tournament.
func (s *Tournaments) Start(ctx context.Context, id int) error {
	return s.lifecycle(ctx, id, "start", "tournament.start", "Tournament started")
}

// GenerateBracket asks the server to build the knockout bracket.
func (s *Tournaments) GenerateBracket(ctx context.Context, id int) error {
	return s.lifecycle(ctx, id, "generate-bracket", "tournament.generate-bracket", "Bracket generated")
}

// StartKnockout begins the knockout stage.
func (s *Tournaments) StartKnockout(ctx context.Context, id int) error {
	return s.lifecycle(ctx, id, "start-knockout", "tournament.start-knockout", "Knockout stage started")
}

// AdvanceRound advances the knockout to the next round.
func (s *Tournaments) AdvanceRound(ctx context.Context, id int) error {
	return s.lifecycle(ctx, id, "advance-round", "tournament.advance-round", "Advanced to next round")
}

// Complete finishes the tournament.
func (s *Tournaments) Complete(ctx context.Context, id int) error {
	return s.lifecycle(ctx, id, "complete", "tournament.complete", "Tournament completed")
}
