// ABOUTME: Cache key classes for the resource services
// ABOUTME: Independently cached views over the same collection get distinct classes

package services

// Key classes. Admin listings and public listings of the same collection are
// cached independently (different params, different shapes), so mutations
// must invalidate both.
const (
	ClassTournaments      = "tournaments"
	ClassTournament       = "tournament"
	ClassTeams            = "teams"
	ClassMatches          = "matches"
	ClassBracket          = "bracket"
	ClassNews             = "news"
	ClassNewsItem         = "news-item"
	ClassAdminTournaments = "admin-tournaments"
	ClassAdminNews        = "admin-news"
	ClassAdminMatches     = "admin-matches"
	ClassUsers            = "users"
)
