package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/bivo/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
	categoryStore "github.com/MrJamesThe3rd/bivo/internal/category/store"
	"github.com/MrJamesThe3rd/bivo/internal/config"
	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	dashboardStore "github.com/MrJamesThe3rd/bivo/internal/dashboard/store"
	"github.com/MrJamesThe3rd/bivo/internal/database"
	"github.com/MrJamesThe3rd/bivo/internal/events"
	"github.com/MrJamesThe3rd/bivo/internal/export"
	"github.com/MrJamesThe3rd/bivo/internal/importer"
	"github.com/MrJamesThe3rd/bivo/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/bivo/internal/matching/store"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
	txStore "github.com/MrJamesThe3rd/bivo/internal/transaction/store"
	"github.com/MrJamesThe3rd/bivo/internal/user"
	userStore "github.com/MrJamesThe3rd/bivo/internal/user/store"
)

type menuEntry struct {
	key   string
	label string
	open  func(*view.Services, auth.Credentials) view.View
}

var menu = []menuEntry{
	{"1", "Dashboard", func(s *view.Services, c auth.Credentials) view.View { return view.NewDashboardModel(s, c) }},
	{"2", "Transactions", func(s *view.Services, c auth.Credentials) view.View { return view.NewTransactionsModel(s, c) }},
	{"3", "Import Transactions", func(s *view.Services, c auth.Credentials) view.View { return view.NewImportModel(s, c) }},
	{"4", "Export Transactions", func(s *view.Services, c auth.Credentials) view.View { return view.NewExportModel(s, c) }},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

type model struct {
	svc  *view.Services
	user *user.User

	// current is nil while the menu is shown.
	current view.View
}

func (m model) Init() tea.Cmd {
	return m.current.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}

	case view.LoggedInMsg:
		m.user = msg.User
		m.current = nil

		return m, nil

	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "o":
		m.user = nil
		m.current = view.NewLoginModel(m.svc)

		return m, m.current.Init()
	}

	creds := auth.Credentials{UserID: m.user.ID, Email: m.user.EmailAddress()}

	for _, entry := range menu {
		if msg.String() == entry.key {
			m.current = entry.open(m.svc, creds)
			return m, m.current.Init()
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.current != nil {
		return m.current.View() + "\n" + helpStyle.Render("  "+m.current.ShortHelp())
	}

	s := titleStyle.Render("BIVO") + "  " + helpStyle.Render(m.user.Name) + "\n\n"
	for _, entry := range menu {
		s += fmt.Sprintf("%s. %s\n", entry.key, entry.label)
	}

	s += "\no. Sign out\nq. Quit"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func initialModel() (model, func(), error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return model{}, nil, fmt.Errorf("loading config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return model{}, nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return model{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			db.Close()
			return model{}, nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	categoryService := category.NewService(categoryStore.New(db))
	transactionService := transaction.NewService(txStore.New(db), categoryService, events.Nop{})
	matchingService := matching.NewService(matchingStore.New(db), categoryService)

	svc := &view.Services{
		Users:        user.NewService(userStore.New(db), categoryService),
		Categories:   categoryService,
		Transactions: transactionService,
		Dashboard:    dashboard.NewService(dashboardStore.New(db), loc),
		Importer:     importer.NewService(loc, categoryService, matchingService),
		Rules:        matchingService,
		Export:       export.NewService(transactionService, loc),
		Location:     loc,
	}

	cleanup := func() { db.Close() }

	return model{svc: svc, current: view.NewLoginModel(svc)}, cleanup, nil
}

func main() {
	m, cleanup, err := initialModel()
	if err != nil {
		slog.Error("failed to start TUI", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
