// ABOUTME: Authenticated dashboard: account summary, credential expiry, service health

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/services"
	"github.com/Games-on/arena-cli/internal/session"
	"github.com/Games-on/arena-cli/internal/tui/styles"
)

type healthCheckedMsg struct {
	err error
}

type upcomingLoadedMsg struct {
	tournaments []services.Tournament
}

type dashboardScreen struct {
	backend *app.App

	tokenInfo     session.TokenInfo
	tokenKnown    bool
	healthOK      bool
	healthErr     string
	healthChecked bool
	upcoming      []services.Tournament
}

func newDashboardScreen(backend *app.App) *dashboardScreen {
	return &dashboardScreen{backend: backend}
}

func (s *dashboardScreen) Enter(snap session.Snapshot) tea.Cmd {
	s.tokenInfo, s.tokenKnown = session.InspectToken(s.backend.Tokens.Token())
	s.healthChecked = false
	s.healthErr = ""
	return tea.Batch(
		func() tea.Msg {
			return healthCheckedMsg{err: s.backend.Services.Health(context.Background())}
		},
		func() tea.Msg {
			res, err := s.backend.Services.Tournaments.List(context.Background(),
				services.ListParams{Page: 1, Limit: 5}, cache.Options{})
			if err != nil {
				return upcomingLoadedMsg{}
			}
			page, _ := res.Data.(*services.TournamentPage)
			if page == nil {
				return upcomingLoadedMsg{}
			}
			return upcomingLoadedMsg{tournaments: page.Items}
		},
	)
}

func (s *dashboardScreen) Update(msg tea.Msg, a *App) tea.Cmd {
	switch msg := msg.(type) {
	case healthCheckedMsg:
		s.healthChecked = true
		s.healthOK = msg.err == nil
		if msg.err != nil {
			s.healthErr = msg.err.Error()
		}
	case upcomingLoadedMsg:
		s.upcoming = msg.tournaments
	}
	return nil
}

func (s *dashboardScreen) View(snap session.Snapshot) string {
	if !snap.Authenticated() {
		return styles.Dim.Render("Not logged in.")
	}
	u := snap.User

	var b strings.Builder
	b.WriteString(styles.Title.Render("Dashboard"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Name:   %s\n", u.Name)
	fmt.Fprintf(&b, "Email:  %s\n", u.Email)
	fmt.Fprintf(&b, "Role:   %s\n", u.Role)

	if s.tokenKnown && !s.tokenInfo.ExpiresAt.IsZero() {
		remaining := time.Until(s.tokenInfo.ExpiresAt).Round(time.Minute)
		if remaining > 0 {
			fmt.Fprintf(&b, "Session expires in %s\n", remaining)
		} else {
			b.WriteString(styles.ErrorText.Render("Session token expired"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case !s.healthChecked:
		b.WriteString(styles.Dim.Render("Checking service health..."))
	case s.healthOK:
		b.WriteString(styles.SuccessText.Render("Service reachable"))
	default:
		b.WriteString(styles.ErrorText.Render("Service unreachable: " + s.healthErr))
	}
	b.WriteString("\n")

	if len(s.upcoming) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Subtitle.Render("Tournaments"))
		b.WriteString("\n")
		for _, t := range s.upcoming {
			line := fmt.Sprintf("  %-28s %-12s teams %d/%d", t.Name, t.Status, t.TeamCount, t.MaxTeams)
			if t.StartDate != nil {
				line += "  " + t.StartDate.Format("2006-01-02")
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString(styles.Help.Render("t tournaments · l log out · esc menu"))
	return b.String()
}
