package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/export"
)

const defaultExportDir = "./exports"

const exportTimeout = 2 * time.Minute

type exportStep int

const (
	exportAsking exportStep = iota
	exportRunning
	exportDone
)

// ExportModel asks for a range and a directory in one form, then writes the
// CSV and the summary there.
type ExportModel struct {
	svc   *Services
	creds auth.Credentials

	step    exportStep
	span    *rangeValues
	dir     *string
	form    *huh.Form
	formErr error
	spinner spinner.Model

	label  string
	result exportResultMsg
}

type exportResultMsg struct {
	summary string
	dir     string
	err     error
}

func NewExportModel(svc *Services, creds auth.Credentials) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = headerStyle

	m := ExportModel{svc: svc, creds: creds, spinner: s}
	m.ask()

	return m
}

// ask rebuilds the form with fresh answers.
func (m *ExportModel) ask() {
	m.step = exportAsking
	m.span = newRangeValues()
	m.dir = new(defaultExportDir)

	groups := m.span.groups(time.Now(), m.svc.Location)
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Folder tujuan").
			Description("Dibuat bila belum ada").
			Placeholder(defaultExportDir).
			Validate(required("folder")).
			Value(m.dir),
	))

	m.form = huh.NewForm(groups...).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportRunning:
		return "Exporting..."
	case exportDone:
		return "Enter: export again | Esc: back"
	}

	return "Esc: back | Enter: next"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(exportResultMsg); ok {
		m.step = exportDone
		m.result = res

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.step != exportRunning {
		switch {
		case keyMsg.Type == tea.KeyEsc:
			return m, Back
		case keyMsg.Type == tea.KeyEnter && m.step == exportDone:
			m.ask()
			return m, m.form.Init()
		}
	}

	switch m.step {
	case exportAsking:
		return m.updateForm(msg)
	case exportRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	r, err := m.span.resolve(time.Now(), m.svc.Location)
	if err != nil {
		m.ask()
		m.formErr = err

		return m, m.form.Init()
	}

	m.formErr = nil
	m.label = r.Label
	m.step = exportRunning

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(r, *m.dir))
}

func (m ExportModel) exportCmd(r DateRange, dir string) tea.Cmd {
	svc := m.svc.Export
	userID := m.creds.UserID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		report, err := svc.Export(ctx, userID, r.Start, r.End)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if err := svc.WriteDir(dir, report); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{summary: report.Summary, dir: dir}
	}
}

func (m ExportModel) View() string {
	var content string

	switch m.step {
	case exportAsking:
		content = m.form.View()
		if m.formErr != nil {
			content = errStyle.Render(m.formErr.Error()) + "\n\n" + content
		}
	case exportRunning:
		content = fmt.Sprintf("%s Exporting %s...", m.spinner.View(), m.label)
	case exportDone:
		content = m.viewResult()
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ExportModel) viewResult() string {
	if m.result.err != nil {
		return errStyle.Render("Export failed: " + m.result.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		incomeStyle.Bold(true).Render("Export selesai: "+m.label),
		faintStyle.Render(fmt.Sprintf("%s and %s in %s", export.TransactionsFile, export.SummaryFile, m.result.dir)),
		"",
		m.result.summary,
	)
}
