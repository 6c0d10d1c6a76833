package view

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
)

// DateRange bounds a transaction query. Nil Start and End mean the whole ledger.
type DateRange struct {
	Start *time.Time
	End   *time.Time
	Label string
}

func (r DateRange) All() bool { return r.Start == nil && r.End == nil }

func monthRange(p dashboard.Period) DateRange {
	return DateRange{Start: new(p.Start), End: new(p.End), Label: p.Label()}
}

// dayRange widens start and end to whole days in loc, end inclusive.
func dayRange(start, end time.Time, loc *time.Location) DateRange {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)

	return DateRange{
		Start: &from,
		End:   &to,
		Label: from.Format(time.DateOnly) + " s/d " + to.Format(time.DateOnly),
	}
}

const (
	rangeMonth  = "month"
	rangeAll    = "all"
	rangeCustom = "custom"
)

// recentMonths is how far back the month choice reaches.
const recentMonths = 12

var errEndBeforeStart = errors.New("end date is before start date")

// rangeValues backs the range questions of a huh form.
type rangeValues struct {
	kind  string
	shift int // months back from the current one
	from  string
	to    string
}

func newRangeValues() *rangeValues {
	return &rangeValues{kind: rangeMonth}
}

// groups asks for the range kind, then either a recent month or two days.
func (v *rangeValues) groups(now time.Time, loc *time.Location) []*huh.Group {
	current := dashboard.PeriodOf(now, loc)

	months := make([]huh.Option[int], recentMonths)
	for i := range months {
		months[i] = huh.NewOption(current.Shift(-i).Label(), i)
	}

	return []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Periode").
				Options(
					huh.NewOption("Satu bulan", rangeMonth),
					huh.NewOption("Semua waktu", rangeAll),
					huh.NewOption("Rentang tanggal", rangeCustom),
				).
				Value(&v.kind),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Bulan").
				Options(months...).
				Value(&v.shift),
		).WithHideFunc(func() bool { return v.kind != rangeMonth }),
		huh.NewGroup(
			huh.NewInput().
				Title("Dari").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Validate(dateOnly(loc)).
				Value(&v.from),
			huh.NewInput().
				Title("Sampai").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Validate(dateOnly(loc)).
				Value(&v.to),
		).WithHideFunc(func() bool { return v.kind != rangeCustom }),
	}
}

func dateOnly(loc *time.Location) func(string) error {
	return func(s string) error {
		if _, err := time.ParseInLocation(time.DateOnly, s, loc); err != nil {
			return errors.New("use YYYY-MM-DD")
		}

		return nil
	}
}

// resolve turns the answers into a range relative to now.
func (v *rangeValues) resolve(now time.Time, loc *time.Location) (DateRange, error) {
	switch v.kind {
	case rangeAll:
		return DateRange{Label: "Semua waktu"}, nil
	case rangeCustom:
		from, err := time.ParseInLocation(time.DateOnly, v.from, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("start date: %w", err)
		}

		to, err := time.ParseInLocation(time.DateOnly, v.to, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("end date: %w", err)
		}

		if to.Before(from) {
			return DateRange{}, errEndBeforeStart
		}

		return dayRange(from, to, loc), nil
	}

	return monthRange(dashboard.PeriodOf(now, loc).Shift(-v.shift)), nil
}

// RangeSelectedMsg is emitted once a RangePicker is answered.
type RangeSelectedMsg struct {
	Range DateRange
}

// RangePicker is a standalone form for choosing a DateRange.
type RangePicker struct {
	loc    *time.Location
	values *rangeValues
	form   *huh.Form
	err    error
}

func NewRangePicker(loc *time.Location) RangePicker {
	m := RangePicker{loc: loc}
	m.Reset()

	return m
}

// Reset clears the answers; callers run Init afterwards.
func (m *RangePicker) Reset() {
	m.values = newRangeValues()
	m.form = huh.NewForm(m.values.groups(time.Now(), m.loc)...).WithWidth(40).WithShowHelp(false)
}

func (m RangePicker) Init() tea.Cmd {
	return m.form.Init()
}

func (m RangePicker) Update(msg tea.Msg) (RangePicker, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	r, err := m.values.resolve(time.Now(), m.loc)
	if err != nil {
		m.Reset()
		m.err = err

		return m, m.form.Init()
	}

	m.err = nil

	return m, func() tea.Msg { return RangeSelectedMsg{Range: r} }
}

func (m RangePicker) View() string {
	if m.err != nil {
		return errStyle.Render(m.err.Error()) + "\n\n" + m.form.View()
	}

	return m.form.View()
}
