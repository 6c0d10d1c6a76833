package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/importer"
	"github.com/MrJamesThe3rd/bivo/internal/importer/parser"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateOptions importState = iota
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

// importOptions backs the options form; see txFormValues.
type importOptions struct {
	profile    string
	categoryID string
}

type ImportModel struct {
	svc   *Services
	creds auth.Credentials

	state      importState
	options    *importOptions
	form       *huh.Form
	filePicker filepicker.Model

	newParams    []transaction.CreateParams
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     map[int]bool

	status string
	err    error
}

func NewImportModel(svc *Services, creds auth.Credentials) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		svc:        svc,
		creds:      creds,
		options:    &importOptions{},
		filePicker: fp,
		selected:   make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateConflicts {
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	svc := m.svc.Categories
	userID := m.creds.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := svc.List(ctx, userID)

		return categoriesMsg{categories: cats, err: err}
	}
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error loading categories: %v", msg.err)

			return m, nil
		}

		m.form = m.buildOptionsForm(msg)

		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateConflicts {
			return m.updateConflicts(msg)
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d transactions (%s, %s).",
				len(msg.result.Imported), msg.batch.Profile, msg.batch.Charset)

			return m, nil
		}

		m.newParams = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.selected = make(map[int]bool)
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c, index: i}
		}

		delegate := conflictDelegate{selected: &m.selected, loc: m.svc.Location}
		m.conflictList = list.New(items, delegate, 80, 20)
		m.conflictList.Title = "Possible duplicates: select the rows to import anyway"
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d transactions.", msg.count)

		return m, nil
	}

	switch m.state {
	case importStateOptions:
		return m.updateOptions(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) buildOptionsForm(msg categoriesMsg) *huh.Form {
	profiles := []huh.Option[string]{huh.NewOption("Detect automatically", "")}
	for _, name := range parser.ProfileNames() {
		profiles = append(profiles, huh.NewOption(name, name))
	}

	categories := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, c := range msg.categories {
		categories = append(categories, huh.NewOption(c.Name, c.ID.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("File format").
				Options(profiles...).
				Value(&m.options.profile),
			huh.NewSelect[string]().
				Title("Fallback category").
				Description("Used for rows without a category or matching rule").
				Options(categories...).
				Value(&m.options.categoryID),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ImportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult, importStateConflicts:
		fresh := NewImportModel(m.svc, m.creds)
		return fresh, fresh.Init()
	}

	return m, Back
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateOptions:
		if m.form == nil {
			return lipgloss.NewStyle().Padding(2).Render("Loading categories...")
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(m.conflictList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFilePick() string {
	profile := m.options.profile
	if profile == "" {
		profile = "auto"
	}

	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s", profile, m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
			"\n\n(Esc to go back)",
	)
}

type importResultMsg struct {
	batch  *importer.Batch
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	svc := m.svc
	userID := m.creds.UserID
	opts := importer.Options{Profile: m.options.profile}

	if id, err := uuid.Parse(m.options.categoryID); err == nil {
		opts.FallbackCategoryID = &id
	}

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		batch, err := svc.Importer.Import(ctx, userID, f, opts)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := svc.Transactions.ImportBatch(ctx, userID, batch.Params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{batch: batch, result: result}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	svc := m.svc.Transactions
	userID := m.creds.UserID
	newParams := m.newParams
	conflicts := m.conflicts
	selected := m.selected

	return func() tea.Msg {
		allParams := append([]transaction.CreateParams{}, newParams...)

		for i, c := range conflicts {
			if !selected[i] {
				continue
			}

			allParams = append(allParams, c.Incoming)
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := svc.CreateBatch(ctx, userID, allParams)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(txs)}
	}
}

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

type conflictDelegate struct {
	selected *map[int]bool
	loc      *time.Location
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	line1 := fmt.Sprintf("%s%s %s  %s  %s",
		cursor, checkbox,
		FormatDate(incoming.Date.In(d.loc)),
		FormatAmount(incoming.Amount, incoming.Type),
		incoming.RawDescription,
	)

	line2 := faintStyle.Render(fmt.Sprintf("      Existing: %s  %s  %s",
		FormatDate(existing.Date.In(d.loc)),
		FormatAmount(existing.Amount, existing.Type),
		existing.RawDescription,
	))

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
