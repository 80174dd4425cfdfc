// ABOUTME: Tournament browsing screens: paginated listing and per-tournament detail
// ABOUTME: Detail tabs cover info, teams, matches, and the knockout bracket

package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/services"
	"github.com/Games-on/arena-cli/internal/tui/styles"
)

type tournamentsLoadedMsg struct {
	page *services.TournamentPage
	res  cache.Result
	err  error
}

type tournamentsScreen struct {
	backend *app.App
	table   table.Model
	params  services.ListParams
	page    *services.TournamentPage
	loading bool
	refresh bool
	errMsg  string

	searching bool
	search    string
}

func newTournamentsScreen(backend *app.App) *tournamentsScreen {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 28},
			{Title: "Status", Width: 12},
			{Title: "Format", Width: 14},
			{Title: "Teams", Width: 9},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return &tournamentsScreen{
		backend: backend,
		table:   t,
		params:  services.ListParams{Page: 1, Limit: 10},
	}
}

func (s *tournamentsScreen) Enter() tea.Cmd {
	s.errMsg = ""
	s.searching = false
	return s.load(cache.Options{})
}

func (s *tournamentsScreen) load(opts cache.Options) tea.Cmd {
	s.loading = true
	params := s.params
	return func() tea.Msg {
		res, err := s.backend.Services.Tournaments.List(context.Background(), params, opts)
		msg := tournamentsLoadedMsg{res: res, err: err}
		if page, ok := res.Data.(*services.TournamentPage); ok {
			msg.page = page
		}
		return msg
	}
}

func (s *tournamentsScreen) setPage(n int) tea.Cmd {
	if n < 1 {
		return nil
	}
	if s.page != nil && s.page.Pagination.TotalPages > 0 && n > s.page.Pagination.TotalPages {
		return nil
	}
	s.params.Page = n
	// Keep the old rows on screen while the next page loads.
	return s.load(cache.Options{KeepPreviousData: true})
}

func (s *tournamentsScreen) Update(msg tea.Msg, a *App) tea.Cmd {
	switch msg := msg.(type) {
	case tournamentsLoadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return nil
		}
		s.errMsg = ""
		s.page = msg.page
		s.refresh = msg.res.Loading
		rows := make([]table.Row, 0, len(msg.page.Items))
		for _, t := range msg.page.Items {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", t.ID),
				t.Name,
				t.Status,
				t.Format,
				fmt.Sprintf("%d/%d", t.TeamCount, t.MaxTeams),
			})
		}
		s.table.SetRows(rows)
		return nil

	case tea.KeyMsg:
		if s.searching {
			switch msg.String() {
			case "enter":
				s.searching = false
				s.params.Search = s.search
				s.params.Page = 1
				return s.load(cache.Options{})
			case "backspace":
				if len(s.search) > 0 {
					s.search = s.search[:len(s.search)-1]
				}
			default:
				if len(msg.Runes) > 0 {
					s.search += string(msg.Runes)
				}
			}
			return nil
		}

		switch msg.String() {
		case "enter":
			row := s.table.SelectedRow()
			if row == nil {
				return nil
			}
			var id int
			if _, err := fmt.Sscanf(row[0], "%d", &id); err != nil {
				return nil
			}
			a.detail.id = id
			return a.Navigate(RouteTournamentDetail)
		case "right", "]":
			return s.setPage(s.params.Page + 1)
		case "left", "[":
			return s.setPage(s.params.Page - 1)
		case "/":
			s.searching = true
			s.search = ""
			return nil
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *tournamentsScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Tournaments"))
	b.WriteString("\n")
	switch {
	case s.searching:
		b.WriteString("Search: " + s.search + "_\n")
	case s.loading && s.page == nil:
		b.WriteString(styles.Dim.Render("Loading..."))
	case s.errMsg != "":
		b.WriteString(styles.ErrorText.Render(s.errMsg))
	default:
		b.WriteString(s.table.View())
		b.WriteString("\n")
		b.WriteString(pageFooter(s.params, s.page.Pagination, s.refresh))
	}
	b.WriteString(styles.Help.Render("enter open · [/] page · / search · esc back"))
	return b.String()
}

func pageFooter(p services.ListParams, pg services.Pagination, refreshing bool) string {
	out := fmt.Sprintf("page %d", p.Page)
	if pg.TotalPages > 0 {
		out = fmt.Sprintf("page %d of %d (%d items)", pg.CurrentPage, pg.TotalPages, pg.TotalItems)
	}
	if p.Search != "" {
		out += fmt.Sprintf("  search=%q", p.Search)
	}
	if refreshing {
		out += "  refreshing..."
	}
	return styles.Dim.Render(out)
}

type detailTab int

const (
	tabInfo detailTab = iota
	tabTeams
	tabMatches
	tabBracket
)

func (t detailTab) String() string {
	switch t {
	case tabTeams:
		return "Teams"
	case tabMatches:
		return "Matches"
	case tabBracket:
		return "Bracket"
	default:
		return "Info"
	}
}

type detailLoadedMsg struct {
	tournament *services.Tournament
	teams      []services.Team
	matches    []services.Match
	bracket    *services.Bracket
	err        error
}

type tournamentDetailScreen struct {
	backend *app.App
	id      int
	tab     detailTab

	tournament *services.Tournament
	teams      []services.Team
	matches    []services.Match
	bracket    *services.Bracket
	loading    bool
	errMsg     string
}

func newTournamentDetailScreen(backend *app.App) *tournamentDetailScreen {
	return &tournamentDetailScreen{backend: backend}
}

func (s *tournamentDetailScreen) Enter() tea.Cmd {
	s.tab = tabInfo
	s.tournament = nil
	s.teams = nil
	s.matches = nil
	s.bracket = nil
	s.errMsg = ""
	s.loading = true
	id := s.id
	return func() tea.Msg {
		ctx := context.Background()
		var msg detailLoadedMsg

		res, err := s.backend.Services.Tournaments.Get(ctx, id)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.tournament, _ = res.Data.(*services.Tournament)

		if res, err := s.backend.Services.Teams.ListByTournament(ctx, id); err == nil {
			msg.teams, _ = res.Data.([]services.Team)
		}
		if res, err := s.backend.Services.Matches.ListByTournament(ctx, id, cache.Options{}); err == nil {
			msg.matches, _ = res.Data.([]services.Match)
		}
		// The bracket exists only once knockout play starts; its absence
		// is not an error for the detail view.
		if res, err := s.backend.Services.Matches.Bracket(ctx, id); err == nil {
			msg.bracket, _ = res.Data.(*services.Bracket)
		}
		return msg
	}
}

func (s *tournamentDetailScreen) Update(msg tea.Msg, a *App) tea.Cmd {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return nil
		}
		s.tournament = msg.tournament
		s.teams = msg.teams
		s.matches = msg.matches
		s.bracket = msg.bracket
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.tab = (s.tab + 1) % 4
		case "shift+tab":
			s.tab = (s.tab + 3) % 4
		case "backspace":
			return a.Navigate(RouteTournaments)
		}
	}
	return nil
}

func (s *tournamentDetailScreen) View() string {
	if s.loading {
		return styles.Dim.Render("Loading...")
	}
	if s.errMsg != "" {
		return styles.ErrorText.Render(s.errMsg)
	}
	if s.tournament == nil {
		return styles.Dim.Render("No tournament selected.")
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(s.tournament.Name))
	b.WriteString("\n")

	var tabs []string
	for t := tabInfo; t <= tabBracket; t++ {
		label := t.String()
		if t == s.tab {
			label = styles.Selected.Render("[" + label + "]")
		} else {
			label = styles.Dim.Render(" " + label + " ")
		}
		tabs = append(tabs, label)
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	switch s.tab {
	case tabTeams:
		b.WriteString(s.teamsView())
	case tabMatches:
		b.WriteString(matchLines(s.matches))
	case tabBracket:
		b.WriteString(s.bracketView())
	default:
		b.WriteString(s.infoView())
	}

	b.WriteString(styles.Help.Render("tab switch · backspace list · esc menu"))
	return b.String()
}

func (s *tournamentDetailScreen) infoView() string {
	t := s.tournament
	var b strings.Builder
	fmt.Fprintf(&b, "Status:  %s\n", t.Status)
	fmt.Fprintf(&b, "Format:  %s\n", t.Format)
	fmt.Fprintf(&b, "Teams:   %d/%d\n", t.TeamCount, t.MaxTeams)
	if t.StartDate != nil {
		fmt.Fprintf(&b, "Starts:  %s\n", t.StartDate.Format("2006-01-02 15:04"))
	}
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}
	return b.String()
}

func (s *tournamentDetailScreen) teamsView() string {
	if len(s.teams) == 0 {
		return styles.Dim.Render("No teams registered.")
	}
	var b strings.Builder
	for _, t := range s.teams {
		fmt.Fprintf(&b, "  %-28s captain %-16s %d members\n", t.Name, t.CaptainName, t.MemberCount)
	}
	return b.String()
}

func matchLines(matches []services.Match) string {
	if len(matches) == 0 {
		return styles.Dim.Render("No matches yet.")
	}
	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "  #%-4d R%-2d %-20s %d : %-2d %-20s %s\n",
			m.ID, m.Round, matchTeamName(m.Team1), m.Score1, m.Score2, matchTeamName(m.Team2), m.Status)
	}
	return b.String()
}

func matchTeamName(t *services.Team) string {
	if t == nil {
		return "TBD"
	}
	return t.Name
}

func (s *tournamentDetailScreen) bracketView() string {
	if s.bracket == nil || len(s.bracket.Rounds) == 0 {
		return styles.Dim.Render("No bracket yet.")
	}
	rounds := make([]string, 0, len(s.bracket.Rounds))
	for name := range s.bracket.Rounds {
		rounds = append(rounds, name)
	}
	sort.Strings(rounds)
	var b strings.Builder
	for _, name := range rounds {
		b.WriteString(styles.Subtitle.Render(name))
		b.WriteString("\n")
		b.WriteString(matchLines(s.bracket.Rounds[name]))
	}
	return b.String()
}
