package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	"github.com/MrJamesThe3rd/bivo/internal/export"
	"github.com/MrJamesThe3rd/bivo/internal/importer"
	"github.com/MrJamesThe3rd/bivo/internal/matching"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
	"github.com/MrJamesThe3rd/bivo/internal/user"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Services bundles the domain services the screens talk to.
type Services struct {
	Users        *user.Service
	Categories   *category.Service
	Transactions *transaction.Service
	Dashboard    *dashboard.Service
	Importer     *importer.Service
	Rules        *matching.Service
	Export       *export.Service
	Location     *time.Location
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
