package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/currency"
	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

const barWidth = 30

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	savingsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	cardStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(22)
)

type DashboardModel struct {
	svc   *Services
	creds auth.Credentials

	period   dashboard.Period
	snapshot *dashboard.Snapshot
	spinner  spinner.Model
	loading  bool
	err      error
}

func NewDashboardModel(svc *Services, creds auth.Credentials) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		svc:     svc,
		creds:   creds,
		period:  dashboard.PeriodOf(time.Now(), svc.Location),
		spinner: s,
		loading: true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "←/→: month | r: reload | Esc: back"
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.period != m.period {
			return m, nil
		}

		m.loading = false
		m.snapshot = msg.snapshot
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			return m.shift(-1)
		case "right", "l":
			return m.shift(1)
		case "r":
			return m.shift(0)
		}
	}

	if m.loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m DashboardModel) shift(n int) (tea.Model, tea.Cmd) {
	m.period = m.period.Shift(n)
	m.loading = true
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

type snapshotMsg struct {
	period   dashboard.Period
	snapshot *dashboard.Snapshot
	err      error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	svc := m.svc.Dashboard
	creds := m.creds
	period := m.period

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snap, err := svc.Compute(ctx, creds, int(period.Month), period.Year)

		return snapshotMsg{period: period, snapshot: snap, err: err}
	}
}

func (m DashboardModel) View() string {
	title := headerStyle.Render("◀ " + m.period.Label() + " ▶")

	var body string

	switch {
	case m.loading:
		body = m.spinner.View() + " Loading..."
	case m.err != nil:
		body = errStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.snapshot != nil:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.summaryView(),
			"",
			m.breakdownView(),
			"",
			m.trendView(),
			"",
			m.recentView(),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(title + "\n\n" + body)
}

func (m DashboardModel) summaryView() string {
	s := m.snapshot.Summary

	card := func(label string, amount decimal.Decimal, style lipgloss.Style) string {
		return cardStyle.Render(faintStyle.Render(label) + "\n" + style.Render(currency.Compact(amount)))
	}

	balanceStyle := incomeStyle
	if s.Balance.IsNegative() {
		balanceStyle = expenseStyle
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Income", s.TotalIncome, incomeStyle),
		card("Expense", s.TotalExpense, expenseStyle),
		card("Savings", s.TotalSavings, savingsStyle),
		card("Balance", s.Balance, balanceStyle),
	)
}

func (m DashboardModel) breakdownView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Expenses by category"))
	b.WriteString("\n")

	rows := m.snapshot.ExpensesByCategory
	if len(rows) == 0 {
		b.WriteString(faintStyle.Render("No expenses this month."))
		return b.String()
	}

	total := m.snapshot.Summary.TotalExpense

	for _, row := range rows {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color))
		fmt.Fprintf(&b, "%-16s %s %s %s\n",
			truncate(row.Category, 16),
			style.Render(bar(row.Amount, total)),
			currency.Compact(row.Amount),
			faintStyle.Render(fmt.Sprintf("(%d)", row.Count)),
		)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m DashboardModel) trendView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Last 6 months"))
	b.WriteString("\n")

	peak := decimal.Zero
	for _, p := range m.snapshot.MonthlyTrend {
		peak = decimal.Max(peak, p.Income, p.Expense, p.Savings)
	}

	for _, p := range m.snapshot.MonthlyTrend {
		fmt.Fprintf(&b, "%-8s %s %s\n", p.Label, incomeStyle.Render(bar(p.Income, peak)), currency.Compact(p.Income))
		fmt.Fprintf(&b, "%-8s %s %s\n", "", expenseStyle.Render(bar(p.Expense, peak)), currency.Compact(p.Expense))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m DashboardModel) recentView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Recent transactions"))
	b.WriteString("\n")

	if len(m.snapshot.RecentTransactions) == 0 {
		b.WriteString(faintStyle.Render("No transactions yet."))
		return b.String()
	}

	for _, tx := range m.snapshot.RecentTransactions {
		fmt.Fprintf(&b, "%s  %-14s  %s\n",
			FormatDate(tx.Date.In(m.svc.Location)),
			amountStyle(tx.Type).Render(FormatAmount(tx.Amount, tx.Type)),
			describe(tx),
		)
	}

	return strings.TrimRight(b.String(), "\n")
}

func amountStyle(typ transaction.Type) lipgloss.Style {
	switch typ {
	case transaction.TypeIncome:
		return incomeStyle
	case transaction.TypeSavings:
		return savingsStyle
	}

	return expenseStyle
}

// bar renders amount as a share of whole, barWidth cells wide.
func bar(amount, whole decimal.Decimal) string {
	if !whole.IsPositive() {
		return strings.Repeat(" ", barWidth)
	}

	n := int(amount.Div(whole).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	n = max(0, min(n, barWidth))

	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

func describe(tx *transaction.Transaction) string {
	desc := tx.Description
	if desc == "" {
		desc = tx.RawDescription
	}

	if tx.Category != nil {
		desc += faintStyle.Render(" · " + tx.Category.Name)
	}

	return desc
}
