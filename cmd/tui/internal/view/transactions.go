package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

type txState int

const (
	txStateRange txState = iota
	txStateList
	txStateEditing
	txStateConfirmDelete
)

type TransactionsModel struct {
	svc   *Services
	creds auth.Credentials

	state           txState
	rangePicker     RangePicker
	table           table.Model
	form            *huh.Form
	values          *txFormValues

	txs        []*transaction.Transaction
	categories []*category.Category
	filter     transaction.ListFilter
	typeIndex  int // 0 is all types, otherwise transaction.Types[typeIndex-1]

	loading bool
	status  string
}

func NewTransactionsModel(svc *Services, creds auth.Credentials) TransactionsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 10},
			{Title: "Type", Width: 8},
			{Title: "Amount", Width: 16},
			{Title: "Category", Width: 16},
			{Title: "Description", Width: 36},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return TransactionsModel{
		svc:             svc,
		creds:           creds,
		rangePicker:     NewRangePicker(svc.Location),
		table:           t,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateRange:
		return "Esc: back | Enter: select"
	case txStateList:
		return "n: new | e: edit | x: delete | t: type | d: dates | Esc: back"
	case txStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	case txStateConfirmDelete:
		return "y: delete | n: keep"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return tea.Batch(m.loadCategoriesCmd(), m.rangePicker.Init())
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RangeSelectedMsg:
		m.filter.StartDate, m.filter.EndDate = msg.Range.Start, msg.Range.End

		m.state = txStateList
		m.loading = true

		return m, m.loadTxsCmd()

	case categoriesMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading categories: %v", msg.err)
			return m, nil
		}

		m.categories = msg.categories

		return m, nil

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.refreshRows()

		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case txSavedMsg:
		m.state = txStateList
		m.form = nil

		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		case msg.learned:
			m.status = "Saved. Rule learned."
		default:
			m.status = "Saved."
		}

		if msg.tx == nil {
			return m, nil
		}

		return m, m.loadTxsCmd()

	case txDeletedMsg:
		m.state = txStateList
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = "Deleted."

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(5, msg.Height-10))
		return m, nil
	}

	switch m.state {
	case txStateRange:
		return m.updateRange(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	case txStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateRange(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	var cmd tea.Cmd
	m.rangePicker, cmd = m.rangePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "d":
			m.rangePicker.Reset()
			m.state = txStateRange

			return m, m.rangePicker.Init()
		case "t":
			m.typeIndex = (m.typeIndex + 1) % (len(transaction.Types) + 1)
			m.filter.Type = nil

			if m.typeIndex > 0 {
				m.filter.Type = new(transaction.Types[m.typeIndex-1])
			}

			m.loading = true

			return m, m.loadTxsCmd()
		case "n":
			return m.startEditing(nil)
		case "e", "enter":
			if tx := m.selected(); tx != nil {
				return m.startEditing(tx)
			}

			return m, nil
		case "x":
			if m.selected() != nil {
				m.state = txStateConfirmDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		return m, m.deleteCmd(m.selected())
	case "n", "esc":
		m.state = txStateList
	}

	return m, nil
}

func (m TransactionsModel) selected() *transaction.Transaction {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.txs) {
		return nil
	}

	return m.txs[i]
}

func (m TransactionsModel) startEditing(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	m.values = newTxFormValues(tx, m.svc.Location)

	// Prefill the category of imported rows from a learned rule.
	if tx != nil && tx.CategoryID == nil && tx.RawDescription != "" {
		ctx, cancel := DbCtx()
		defer cancel()

		if id, err := m.svc.Rules.Suggest(ctx, m.creds.UserID, tx.RawDescription); err == nil && id != nil {
			m.values.categoryID = id.String()
		}
	}

	m.form = newTxForm(m.values, m.categories)
	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.values.saveCmd(m.svc, m.creds)
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateRange:
		return lipgloss.NewStyle().Padding(1).Render(m.rangePicker.View())

	case txStateEditing:
		if m.form == nil {
			return ""
		}

		title := "New transaction"
		if m.values.id != uuid.Nil {
			title = "Edit transaction"
		}

		if m.values.raw != "" {
			title += faintStyle.Render("  raw: " + m.values.raw)
		}

		return lipgloss.NewStyle().Padding(1).Render(headerStyle.Render(title) + "\n\n" + m.form.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	header := headerStyle.Render("Transactions") + "  " + faintStyle.Render(m.filterLabel())

	footer := ""

	switch {
	case m.state == txStateConfirmDelete:
		if tx := m.selected(); tx != nil {
			footer = errStyle.Render(fmt.Sprintf("Delete %s %s? (y/n)", FormatDate(tx.Date.In(m.svc.Location)), FormatAmount(tx.Amount, tx.Type)))
		}
	case m.status != "":
		footer = faintStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.table.View(), "", footer),
	)
}

func (m TransactionsModel) filterLabel() string {
	typ := "all types"
	if m.filter.Type != nil {
		typ = string(*m.filter.Type)
	}

	dates := "all time"
	if m.filter.StartDate != nil && m.filter.EndDate != nil {
		dates = FormatDate(*m.filter.StartDate) + " to " + FormatDate(*m.filter.EndDate)
	}

	return fmt.Sprintf("[%s | %s]", typ, dates)
}

func (m *TransactionsModel) refreshRows() {
	rows := make([]table.Row, len(m.txs))

	for i, tx := range m.txs {
		cat := ""
		if tx.Category != nil {
			cat = tx.Category.Name
		}

		desc := tx.Description
		if desc == "" {
			desc = tx.RawDescription
		}

		rows[i] = table.Row{
			FormatDate(tx.Date.In(m.svc.Location)),
			string(tx.Type),
			FormatAmount(tx.Amount, tx.Type),
			cat,
			desc,
		}
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	svc := m.svc.Transactions
	userID := m.creds.UserID
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.List(ctx, userID, filter)

		return loadTxsMsg{txs: txs, err: err}
	}
}

type categoriesMsg struct {
	categories []*category.Category
	err        error
}

func (m TransactionsModel) loadCategoriesCmd() tea.Cmd {
	svc := m.svc.Categories
	userID := m.creds.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := svc.List(ctx, userID)

		return categoriesMsg{categories: cats, err: err}
	}
}

type txDeletedMsg struct {
	err error
}

func (m TransactionsModel) deleteCmd(tx *transaction.Transaction) tea.Cmd {
	svc := m.svc.Transactions
	userID := m.creds.UserID

	return func() tea.Msg {
		if tx == nil {
			return txDeletedMsg{}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		return txDeletedMsg{err: svc.Delete(ctx, userID, tx.ID)}
	}
}
