// ABOUTME: Staff panel: tabbed admin views over tournaments, news, and users
// ABOUTME: Pages keep previous rows visible while the next page loads

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/services"
	"github.com/Games-on/arena-cli/internal/session"
	"github.com/Games-on/arena-cli/internal/tui/styles"
)

type adminTab int

const (
	adminTournaments adminTab = iota
	adminNews
	adminUsers
)

func (t adminTab) String() string {
	switch t {
	case adminNews:
		return "News"
	case adminUsers:
		return "Users"
	default:
		return "Tournaments"
	}
}

type adminLoadedMsg struct {
	tab        adminTab
	rows       []table.Row
	pagination services.Pagination
	refreshing bool
	err        error
}

type adminMutatedMsg struct {
	err error
}

type adminScreen struct {
	backend *app.App
	tab     adminTab
	table   table.Model
	params  services.ListParams

	pagination services.Pagination
	loading    bool
	refreshing bool
	errMsg     string
}

func newAdminScreen(backend *app.App) *adminScreen {
	return &adminScreen{
		backend: backend,
		params:  services.ListParams{Page: 1, Limit: 10},
	}
}

func columnsFor(tab adminTab) []table.Column {
	switch tab {
	case adminNews:
		return []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Title", Width: 32},
			{Title: "Created", Width: 12},
		}
	case adminUsers:
		return []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 20},
			{Title: "Email", Width: 26},
			{Title: "Role", Width: 11},
		}
	default:
		return []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 26},
			{Title: "Status", Width: 12},
			{Title: "Teams", Width: 9},
		}
	}
}

func (s *adminScreen) Enter() tea.Cmd {
	s.tab = adminTournaments
	s.params = services.ListParams{Page: 1, Limit: 10}
	s.errMsg = ""
	s.rebuildTable()
	return s.load(cache.Options{})
}

func (s *adminScreen) rebuildTable() {
	s.table = table.New(
		table.WithColumns(columnsFor(s.tab)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func (s *adminScreen) load(opts cache.Options) tea.Cmd {
	s.loading = true
	tab := s.tab
	params := s.params
	return func() tea.Msg {
		ctx := context.Background()
		msg := adminLoadedMsg{tab: tab}
		switch tab {
		case adminNews:
			res, err := s.backend.Services.News.AdminList(ctx, params, opts)
			if err != nil {
				msg.err = err
				break
			}
			page := res.Data.(*services.NewsPage)
			msg.pagination = page.Pagination
			msg.refreshing = res.Loading
			for _, n := range page.Items {
				created := ""
				if n.CreatedAt != nil {
					created = n.CreatedAt.Format("2006-01-02")
				}
				msg.rows = append(msg.rows, table.Row{strconv.Itoa(n.ID), n.Name, created})
			}
		case adminUsers:
			res, err := s.backend.Services.Users.List(ctx, params, opts)
			if err != nil {
				msg.err = err
				break
			}
			users := res.Data.([]session.User)
			msg.refreshing = res.Loading
			for _, u := range users {
				msg.rows = append(msg.rows, table.Row{strconv.Itoa(u.ID), u.Name, u.Email, u.Role})
			}
		default:
			res, err := s.backend.Services.Tournaments.AdminList(ctx, params, opts)
			if err != nil {
				msg.err = err
				break
			}
			page := res.Data.(*services.TournamentPage)
			msg.pagination = page.Pagination
			msg.refreshing = res.Loading
			for _, t := range page.Items {
				msg.rows = append(msg.rows, table.Row{
					strconv.Itoa(t.ID), t.Name, t.Status, fmt.Sprintf("%d/%d", t.TeamCount, t.MaxTeams),
				})
			}
		}
		return msg
	}
}

func (s *adminScreen) selectedID() (int, bool) {
	row := s.table.SelectedRow()
	if row == nil {
		return 0, false
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return 0, false
	}
	return id, true
}

// mutate runs one admin write off the UI goroutine and reloads the current
// tab afterwards. The coordinator already staled the affected classes, so
// the reload fetches fresh rows.
func (s *adminScreen) mutate(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return adminMutatedMsg{err: op(context.Background())}
	}
}

func (s *adminScreen) Update(msg tea.Msg, a *App) tea.Cmd {
	switch msg := msg.(type) {
	case adminLoadedMsg:
		if msg.tab != s.tab {
			return nil
		}
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return nil
		}
		s.errMsg = ""
		s.pagination = msg.pagination
		s.refreshing = msg.refreshing
		s.table.SetRows(msg.rows)
		return nil

	case adminMutatedMsg:
		// Failures already reached the status bar through the notifier.
		return s.load(cache.Options{})

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.tab = (s.tab + 1) % 3
			s.params = services.ListParams{Page: 1, Limit: 10}
			s.rebuildTable()
			return s.load(cache.Options{})
		case "right", "]":
			if s.pagination.HasNext || (s.pagination.TotalPages == 0 && s.tab == adminUsers) {
				s.params.Page++
				return s.load(cache.Options{KeepPreviousData: true})
			}
			return nil
		case "left", "[":
			if s.params.Page > 1 {
				s.params.Page--
				return s.load(cache.Options{KeepPreviousData: true})
			}
			return nil
		case "x":
			return s.deleteSelected()
		case "s":
			return s.lifecycleSelected(func(ctx context.Context, id int) error {
				return s.backend.Services.Tournaments.Start(ctx, id)
			})
		case "g":
			return s.lifecycleSelected(func(ctx context.Context, id int) error {
				return s.backend.Services.Tournaments.GenerateBracket(ctx, id)
			})
		case "k":
			return s.lifecycleSelected(func(ctx context.Context, id int) error {
				return s.backend.Services.Tournaments.StartKnockout(ctx, id)
			})
		case "v":
			return s.lifecycleSelected(func(ctx context.Context, id int) error {
				return s.backend.Services.Tournaments.AdvanceRound(ctx, id)
			})
		case "c":
			return s.lifecycleSelected(func(ctx context.Context, id int) error {
				return s.backend.Services.Tournaments.Complete(ctx, id)
			})
		case "o":
			return s.cycleRole()
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *adminScreen) deleteSelected() tea.Cmd {
	id, ok := s.selectedID()
	if !ok {
		return nil
	}
	switch s.tab {
	case adminNews:
		return s.mutate(func(ctx context.Context) error {
			return s.backend.Services.News.Delete(ctx, id)
		})
	case adminUsers:
		return s.mutate(func(ctx context.Context) error {
			return s.backend.Services.Users.Delete(ctx, id)
		})
	default:
		return s.mutate(func(ctx context.Context) error {
			return s.backend.Services.Tournaments.Delete(ctx, id)
		})
	}
}

func (s *adminScreen) lifecycleSelected(op func(ctx context.Context, id int) error) tea.Cmd {
	if s.tab != adminTournaments {
		return nil
	}
	id, ok := s.selectedID()
	if !ok {
		return nil
	}
	return s.mutate(func(ctx context.Context) error {
		return op(ctx, id)
	})
}

// cycleRole steps the selected user USER -> ORGANIZER -> ADMIN -> USER.
func (s *adminScreen) cycleRole() tea.Cmd {
	if s.tab != adminUsers {
		return nil
	}
	id, ok := s.selectedID()
	if !ok {
		return nil
	}
	row := s.table.SelectedRow()
	next := session.RoleUser
	switch row[3] {
	case session.RoleUser:
		next = session.RoleOrganizer
	case session.RoleOrganizer:
		next = session.RoleAdmin
	}
	return s.mutate(func(ctx context.Context) error {
		return s.backend.Services.Users.SetRole(ctx, id, next)
	})
}

func (s *adminScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Admin panel"))
	b.WriteString("\n")

	var tabs []string
	for t := adminTournaments; t <= adminUsers; t++ {
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

	switch {
	case s.loading && len(s.table.Rows()) == 0:
		b.WriteString(styles.Dim.Render("Loading..."))
	case s.errMsg != "":
		b.WriteString(styles.ErrorText.Render(s.errMsg))
	default:
		b.WriteString(s.table.View())
		b.WriteString("\n")
		b.WriteString(pageFooter(s.params, s.pagination, s.refreshing))
	}

	help := "tab switch · [/] page · x delete · esc menu"
	switch s.tab {
	case adminTournaments:
		help = "tab switch · [/] page · s start · g bracket · k knockout · v advance · c complete · x delete · esc menu"
	case adminUsers:
		help = "tab switch · [/] page · o cycle role · x delete · esc menu"
	}
	b.WriteString(styles.Help.Render(help))
	return b.String()
}
