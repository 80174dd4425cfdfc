// ABOUTME: Team resource service: per-tournament listings and registration

package services

import (
	"context"
	"fmt"

	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/cache"
)

// Teams covers team listings and registration within tournaments.
type Teams struct {
	client *api.Client
	cache  *cache.Cache
	mut    *cache.Coordinator
}

func NewTeams(client *api.Client, c *cache.Cache, mut *cache.Coordinator) *Teams {
	return &Teams{client: client, cache: c, mut: mut}
}

// ListByTournament reads the teams registered in a tournament. Result data
// is []Team.
func (s *Teams) ListByTournament(ctx context.Context, tournamentID int) (cache.Result, error) {
	key := cache.Key{Class: ClassTeams, Params: fmt.Sprintf("tournament=%d", tournamentID)}
	path := idPath("/api/tournaments", tournamentID) + "/teams"
	return s.cache.Read(ctx, key, func(ctx context.Context) (any, error) {
		var teams []Team
		if err := s.client.Get(ctx, path, &teams); err != nil {
			return nil, err
		}
		return teams, nil
	}, cache.Options{})
}

// Register registers a team into a tournament. Stales the team listing and
// the tournament detail (its team count just changed).
func (s *Teams) Register(ctx context.Context, tournamentID int, req RegisterTeamRequest) (*Team, error) {
	team := &Team{}
	result, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "team.register",
		Invalidates: []string{ClassTeams, ClassTournament, ClassTournaments, ClassAdminTournaments},
		Message:     "Team registered",
		Op: func(ctx context.Context) (any, error) {
			if err := s.client.Post(ctx, idPath("/api/tournaments", tournamentID)+"/register", req, team); err != nil {
				return nil, err
			}
			return team, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Data.(*Team), nil
}
