package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/auth"
)

const (
	modeLogin    = "Sign in"
	modeRegister = "Create account"
)

// LoggedInMsg is emitted once the user signed in or registered.
type LoggedInMsg struct {
	Session *auth.Session
}

// credentials is shared with the form, which keeps pointers to its fields.
type credentials struct {
	mode     string
	email    string
	password string
}

type LoginModel struct {
	CommonModel
	authService *auth.Service

	form    *huh.Form
	fields  *credentials
	working bool
	err     error
}

func NewLoginModel(authSvc *auth.Service) LoginModel {
	m := LoginModel{
		authService: authSvc,
		fields:      &credentials{mode: modeLogin},
	}
	m.form = m.newForm()

	return m
}

func (m LoginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tally").
				Options(huh.NewOptions(modeLogin, modeRegister)...).
				Value(&m.fields.mode),

			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.fields.email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("email cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.password),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m LoginModel) Title() string { return "Sign in" }

func (m LoginModel) ShortHelp() string {
	return "Enter/Tab: next field | Ctrl+C: quit"
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.working = false

		if res.err != nil {
			m.err = res.err
			m.fields.password = ""
			m.form = m.newForm()

			return m, m.form.Init()
		}

		session := res.session

		return m, func() tea.Msg { return LoggedInMsg{Session: session} }
	}

	if m.working {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.working = true
	m.err = nil

	return m, m.submitCmd()
}

func (m LoginModel) View() string {
	if m.working {
		return lipgloss.NewStyle().Padding(2).Render("Signing in...")
	}

	content := m.form.View()
	if m.err != nil {
		content = errorStyle(describeAuthError(m.err)) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func describeAuthError(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Wrong email or password."
	case errors.Is(err, auth.ErrEmailTaken):
		return "An account with this email already exists."
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		return err.Error()
	}

	return fmt.Sprintf("Error: %v", err)
}

type loginResultMsg struct {
	session *auth.Session
	err     error
}

func (m LoginModel) submitCmd() tea.Cmd {
	creds := *m.fields
	svc := m.authService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			session *auth.Session
			err     error
		)

		if creds.mode == modeRegister {
			session, err = svc.Register(ctx, creds.email, creds.password)
		} else {
			session, err = svc.Login(ctx, creds.email, creds.password)
		}

		return loginResultMsg{session: session, err: err}
	}
}
