package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bivo/internal/user"
)

const (
	modeLogin = "login"
	modeGuest = "guest"
)

// LoggedInMsg is emitted once a session user is known.
type LoggedInMsg struct {
	User *user.User
}

type LoginModel struct {
	svc  *Services
	form *huh.Form
	err  error
	busy bool
}

func NewLoginModel(svc *Services) LoginModel {
	return LoginModel{svc: svc, form: newLoginForm()}
}

func newLoginForm() *huh.Form {
	var form *huh.Form

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("mode").
				Title("BIVO").
				Description("How do you want to continue?").
				Options(
					huh.NewOption("Log in with email", modeLogin),
					huh.NewOption("Continue as guest", modeGuest),
				),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Validate(required("email")),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(required("password")),
		).WithHideFunc(func() bool { return form.GetString("mode") != modeLogin }),
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("Tamu"),
		).WithHideFunc(func() bool { return form.GetString("mode") != modeGuest }),
	).WithWidth(50).WithShowHelp(false)

	return form
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func (m LoginModel) Title() string     { return "Sign In" }
func (m LoginModel) ShortHelp() string { return "Enter: next | ctrl+c: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.busy = false

		if res.err != nil {
			m.err = res.err
			m.form = newLoginForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{User: res.user} }
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true
	m.err = nil

	return m, m.loginCmd(
		m.form.GetString("mode"),
		m.form.GetString("email"),
		m.form.GetString("password"),
		m.form.GetString("name"),
	)
}

func (m LoginModel) View() string {
	if m.busy {
		return lipgloss.NewStyle().Padding(2).Render("Signing in...")
	}

	content := m.form.View()

	if m.err != nil {
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.err.Error()) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type loginResultMsg struct {
	user *user.User
	err  error
}

func (m LoginModel) loginCmd(mode, email, password, name string) tea.Cmd {
	users := m.svc.Users

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if mode == modeGuest {
			u, err := users.EnsureGuest(ctx, user.GuestParams{Name: name})
			return loginResultMsg{user: u, err: err}
		}

		u, err := users.Authenticate(ctx, email, password)
		if errors.Is(err, user.ErrInvalidCredentials) {
			err = errors.New("wrong email or password")
		}

		return loginResultMsg{user: u, err: err}
	}
}
