// ABOUTME: Match resource service: per-tournament listings, scores, statuses, bracket

package services

import (
	"context"
	"fmt"

	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/cache"
)

// Matches covers the match endpoints and the bracket view.
type Matches struct {
	client *api.Client
	cache  *cache.Cache
	mut    *cache.Coordinator
}

func NewMatches(client *api.Client, c *cache.Cache, mut *cache.Coordinator) *Matches {
	return &Matches{client: client, cache: c, mut: mut}
}

// ScoreRequest updates a match score.
type ScoreRequest struct {
	Team1Score int `json:"team1Score"`
	Team2Score int `json:"team2Score"`
}

// StatusRequest updates a match status.
type StatusRequest struct {
	Status string `json:"status"`
}

// ListByTournament reads a tournament's matches. Result data is []Match.
func (s *Matches) ListByTournament(ctx context.Context, tournamentID int, opts cache.Options) (cache.Result, error) {
	key := cache.Key{Class: ClassMatches, Params: fmt.Sprintf("tournament=%d", tournamentID)}
	path := idPath("/api/tournaments", tournamentID) + "/matches"
	return s.cache.Read(ctx, key, func(ctx context.Context) (any, error) {
		var matches []Match
		if err := s.client.Get(ctx, path, &matches); err != nil {
			return nil, err
		}
		return matches, nil
	}, opts)
}

// Bracket reads a tournament's knockout bracket. Result data is *Bracket.
func (s *Matches) Bracket(ctx context.Context, tournamentID int) (cache.Result, error) {
	key := cache.Key{Class: ClassBracket, Params: fmt.Sprintf("tournament=%d", tournamentID)}
	path := idPath("/api/tournaments", tournamentID) + "/bracket"
	return s.cache.Read(ctx, key, func(ctx context.Context) (any, error) {
		b := &Bracket{}
		if err := s.client.Get(ctx, path, b); err != nil {
			return nil, err
		}
		return b, nil
	}, cache.Options{})
}

// matchBlastRadius: score and status changes reshape the bracket and every
// match listing, admin or public.
var matchBlastRadius = []string{ClassAdminMatches, ClassMatches, ClassBracket}

// UpdateScore sets a match's score.
func (s *Matches) UpdateScore(ctx context.Context, matchID int, req ScoreRequest) (*Match, error) {
	match := &Match{}
	result, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "match.score",
		Invalidates: matchBlastRadius,
		Message:     "Match score updated",
		Op: func(ctx context.Context) (any, error) {
			if err := s.client.Put(ctx, idPath("/api/matches", matchID)+"/score", req, match); err != nil {
				return nil, err
			}
			return match, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Data.(*Match), nil
}

// UpdateStatus sets a match's status.
func (s *Matches) UpdateStatus(ctx context.Context, matchID int, req StatusRequest) (*Match, error) {
	match := &Match{}
	result, err := s.mut.Do(ctx, cache.Mutation{
		Name:        "match.status",
		Invalidates: matchBlastRadius,
		Message:     "Match status updated",
		Op: func(ctx context.Context) (any, error) {
			if err := s.client.Put(ctx, idPath("/api/matches", matchID)+"/status", req, match); err != nil {
				return nil, err
			}
			return match, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Data.(*Match), nil
}
