// ABOUTME: News browsing screens: paginated listing and article detail

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/cache"
	"github.com/Games-on/arena-cli/internal/services"
	"github.com/Games-on/arena-cli/internal/tui/styles"
)

type newsLoadedMsg struct {
	page *services.NewsPage
	res  cache.Result
	err  error
}

type newsScreen struct {
	backend *app.App
	params  services.ListParams
	page    *services.NewsPage
	cursor  int
	loading bool
	refresh bool
	errMsg  string
}

func newNewsScreen(backend *app.App) *newsScreen {
	return &newsScreen{
		backend: backend,
		params:  services.ListParams{Page: 1, Limit: 10},
	}
}

func (s *newsScreen) Enter() tea.Cmd {
	s.errMsg = ""
	s.cursor = 0
	return s.load(cache.Options{})
}

func (s *newsScreen) load(opts cache.Options) tea.Cmd {
	s.loading = true
	params := s.params
	return func() tea.Msg {
		res, err := s.backend.Services.News.List(context.Background(), params, opts)
		msg := newsLoadedMsg{res: res, err: err}
		if page, ok := res.Data.(*services.NewsPage); ok {
			msg.page = page
		}
		return msg
	}
}

func (s *newsScreen) Update(msg tea.Msg, a *App) tea.Cmd {
	switch msg := msg.(type) {
	case newsLoadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return nil
		}
		s.errMsg = ""
		s.page = msg.page
		s.refresh = msg.res.Loading
		if s.cursor >= len(msg.page.Items) {
			s.cursor = 0
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.page != nil && s.cursor < len(s.page.Items)-1 {
				s.cursor++
			}
		case "right", "]":
			if s.page != nil && s.page.Pagination.HasNext {
				s.params.Page++
				return s.load(cache.Options{KeepPreviousData: true})
			}
		case "left", "[":
			if s.params.Page > 1 {
				s.params.Page--
				return s.load(cache.Options{KeepPreviousData: true})
			}
		case "enter":
			if s.page == nil || s.cursor >= len(s.page.Items) {
				return nil
			}
			a.newsDetail.id = s.page.Items[s.cursor].ID
			return a.Navigate(RouteNewsDetail)
		}
	}
	return nil
}

func (s *newsScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("News"))
	b.WriteString("\n")
	switch {
	case s.loading && s.page == nil:
		b.WriteString(styles.Dim.Render("Loading..."))
	case s.errMsg != "":
		b.WriteString(styles.ErrorText.Render(s.errMsg))
	case s.page == nil || len(s.page.Items) == 0:
		b.WriteString(styles.Dim.Render("No articles."))
	default:
		for i, n := range s.page.Items {
			line := n.Name
			if n.CreatedAt != nil {
				line = fmt.Sprintf("%s  %s", n.CreatedAt.Format("2006-01-02"), n.Name)
			}
			if i == s.cursor {
				b.WriteString(styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
			if n.ShortDescription != "" {
				b.WriteString(styles.Dim.Render("    " + n.ShortDescription))
				b.WriteString("\n")
			}
		}
		b.WriteString(pageFooter(s.params, s.page.Pagination, s.refresh))
	}
	b.WriteString(styles.Help.Render("enter read · [/] page · esc back"))
	return b.String()
}

type newsItemLoadedMsg struct {
	item *services.News
	err  error
}

type newsDetailScreen struct {
	backend *app.App
	id      int
	item    *services.News
	loading bool
	errMsg  string
}

func newNewsDetailScreen(backend *app.App) *newsDetailScreen {
	return &newsDetailScreen{backend: backend}
}

func (s *newsDetailScreen) Enter() tea.Cmd {
	s.item = nil
	s.errMsg = ""
	s.loading = true
	id := s.id
	return func() tea.Msg {
		res, err := s.backend.Services.News.Get(context.Background(), id)
		msg := newsItemLoadedMsg{err: err}
		if item, ok := res.Data.(*services.News); ok {
			msg.item = item
		}
		return msg
	}
}

func (s *newsDetailScreen) Update(msg tea.Msg, a *App) tea.Cmd {
	switch msg := msg.(type) {
	case newsItemLoadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return nil
		}
		s.item = msg.item
		return nil

	case tea.KeyMsg:
		if msg.String() == "backspace" {
			return a.Navigate(RouteNews)
		}
	}
	return nil
}

func (s *newsDetailScreen) View() string {
	if s.loading {
		return styles.Dim.Render("Loading...")
	}
	if s.errMsg != "" {
		return styles.ErrorText.Render(s.errMsg)
	}
	if s.item == nil {
		return styles.Dim.Render("No article selected.")
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(s.item.Name))
	b.WriteString("\n")
	if s.item.CreatedAt != nil {
		b.WriteString(styles.Subtitle.Render(s.item.CreatedAt.Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}
	b.WriteString(s.item.Content)
	b.WriteString("\n")
	if len(s.item.Attachments) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Subtitle.Render("Attachments"))
		b.WriteString("\n")
		for _, a := range s.item.Attachments {
			b.WriteString("  " + a + "\n")
		}
	}
	b.WriteString(styles.Help.Render("backspace list · esc menu"))
	return b.String()
}
