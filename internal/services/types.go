// ABOUTME: Wire types for the tournament service resources
// ABOUTME: Mirrors the payloads the service returns; snapshots, never patched

package services

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Pagination is the listing metadata the service attaches to paged results.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// ListParams are the query parameters shared by listing endpoints. They are
// part of the cache key: page 2 of a search is a different entry than page 1.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) query() string {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	return v.Encode()
}

func (p ListParams) pathSuffix() string {
	q := p.query()
	if q == "" {
		return ""
	}
	return "?" + q
}

// Tournament is a tournament snapshot.
type Tournament struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Format      string     `json:"format"`
	MaxTeams    int        `json:"maxTeams"`
	TeamCount   int        `json:"teamCount"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// TournamentPage is one page of the tournament listing.
type TournamentPage struct {
	Items      []Tournament
	Pagination Pagination
}

// Team is a registered team within a tournament.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TournamentID int    `json:"tournamentId"`
	CaptainName  string `json:"captainName"`
	MemberCount  int    `json:"memberCount"`
}

// RegisterTeamRequest registers a team into a tournament.
type RegisterTeamRequest struct {
	Name        string `json:"name"`
	CaptainName string `json:"captainName"`
}

// Match is a match snapshot.
type Match struct {
	ID           int        `json:"id"`
	TournamentID int        `json:"tournamentId"`
	Round        int        `json:"round"`
	Team1        *Team      `json:"team1"`
	Team2        *Team      `json:"team2"`
	Score1       int        `json:"team1Score"`
	Score2       int        `json:"team2Score"`
	Status       string     `json:"status"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
}

// Bracket is the knockout bracket for a tournament: matches grouped by round.
type Bracket struct {
	TournamentID int               `json:"tournamentId"`
	Rounds       map[string][]Match `json:"rounds"`
}

// News is a news article snapshot.
type News struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	ShortDescription string     `json:"shortDescription"`
	Content          string     `json:"content"`
	Attachments      []string   `json:"attachments"`
	CreatedAt        *time.Time `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt"`
}

// NewsPage is one page of the news listing.
type NewsPage struct {
	Items      []News
	Pagination Pagination
}

func idPath(base string, id int) string {
	return fmt.Sprintf("%s/%d", base, id)
}
