// ABOUTME: Login and register screens backed by huh forms
// ABOUTME: Validation failures render field-level feedback on the initiating form

package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Games-on/arena-cli/internal/api"
	"github.com/Games-on/arena-cli/internal/app"
	"github.com/Games-on/arena-cli/internal/session"
	"github.com/Games-on/arena-cli/internal/tui/styles"
)

type loginDoneMsg struct {
	err error
}

type registerDoneMsg struct {
	user *session.User
	err  error
}

// formError renders a classified error for display under a form, expanding
// field-level validation messages when present.
func formError(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		fields := make([]string, 0, len(apiErr.Fields))
		for name := range apiErr.Fields {
			fields = append(fields, name)
		}
		sort.Strings(fields)
		var b strings.Builder
		b.WriteString(apiErr.Message)
		for _, name := range fields {
			b.WriteString(fmt.Sprintf("\n  %s: %s", name, strings.Join(apiErr.Fields[name], "; ")))
		}
		return b.String()
	}
	return err.Error()
}

type loginScreen struct {
	backend    *app.App
	form       *huh.Form
	email      string
	password   string
	submitting bool
	errMsg     string
}

func newLoginScreen(backend *app.App) *loginScreen {
	return &loginScreen{backend: backend}
}

func (s *loginScreen) Enter() tea.Cmd {
	s.email = ""
	s.password = ""
	s.submitting = false
	s.errMsg = ""
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&s.email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&s.password),
	)).WithTheme(huh.ThemeBase())
	return s.form.Init()
}

func (s *loginScreen) Update(msg tea.Msg, a *App) tea.Cmd {
	if done, ok := msg.(loginDoneMsg); ok {
		s.submitting = false
		if done.err != nil {
			if errors.Is(done.err, session.ErrLoginInFlight) {
				return nil
			}
			cmd := s.Enter()
			s.errMsg = formError(done.err)
			return cmd
		}
		return a.Navigate(RouteDashboard)
	}

	if s.form == nil || s.submitting {
		return nil
	}

	model, cmd := s.form.Update(msg)
	s.form = model.(*huh.Form)

	if s.form.State == huh.StateCompleted {
		s.submitting = true
		email, password := s.email, s.password
		return tea.Batch(cmd, func() tea.Msg {
			err := s.backend.Session.Login(context.Background(), email, password)
			return loginDoneMsg{err: err}
		})
	}
	return cmd
}

func (s *loginScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Log in"))
	b.WriteString("\n")
	if s.submitting {
		b.WriteString(styles.Dim.Render("Signing in..."))
	} else if s.form != nil {
		b.WriteString(s.form.View())
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render(s.errMsg))
	}
	b.WriteString(styles.Help.Render("esc back"))
	return b.String()
}

type registerScreen struct {
	backend    *app.App
	form       *huh.Form
	name       string
	email      string
	password   string
	submitting bool
	errMsg     string
	created    *session.User
}

func newRegisterScreen(backend *app.App) *registerScreen {
	return &registerScreen{backend: backend}
}

func (s *registerScreen) Enter() tea.Cmd {
	s.name = ""
	s.email = ""
	s.password = ""
	s.submitting = false
	s.errMsg = ""
	s.created = nil
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&s.name),
		huh.NewInput().Title("Email").Value(&s.email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&s.password),
	)).WithTheme(huh.ThemeBase())
	return s.form.Init()
}

func (s *registerScreen) Update(msg tea.Msg, a *App) tea.Cmd {
	if done, ok := msg.(registerDoneMsg); ok {
		s.submitting = false
		if done.err != nil {
			cmd := s.Enter()
			s.errMsg = formError(done.err)
			return cmd
		}
		// Registration does not log the user in; the server decides
		// that policy. Send them to the login form.
		s.created = done.user
		return nil
	}

	if s.form == nil || s.submitting || s.created != nil {
		if s.created != nil {
			if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
				return a.Navigate(RouteLogin)
			}
		}
		return nil
	}

	model, cmd := s.form.Update(msg)
	s.form = model.(*huh.Form)

	if s.form.State == huh.StateCompleted {
		s.submitting = true
		req := session.RegisterRequest{Name: s.name, Email: s.email, Password: s.password}
		return tea.Batch(cmd, func() tea.Msg {
			user, err := s.backend.Session.Register(context.Background(), req)
			return registerDoneMsg{user: user, err: err}
		})
	}
	return cmd
}

func (s *registerScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Create account"))
	b.WriteString("\n")
	switch {
	case s.created != nil:
		b.WriteString(styles.SuccessText.Render(fmt.Sprintf("Account created for %s.", s.created.Email)))
		b.WriteString("\n")
		b.WriteString(styles.Help.Render("enter to log in, esc back"))
		return b.String()
	case s.submitting:
		b.WriteString(styles.Dim.Render("Creating account..."))
	case s.form != nil:
		b.WriteString(s.form.View())
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render(s.errMsg))
	}
	b.WriteString(styles.Help.Render("esc back"))
	return b.String()
}
