package dashboard

import (
	"fmt"
	"time"
)

// shortMonths are the id-ID abbreviated month names.
var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// Period is one calendar month. Start and End are both inclusive.
type Period struct {
	Year  int
	Month time.Month
	Start time.Time
	End   time.Time
}

// NewPeriod normalises month and year with calendar arithmetic, so month 13
// of 2024 is January 2025 and month 0 of 2025 is December 2024.
func NewPeriod(month, year int, loc *time.Location) Period {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

	return Period{
		Year:  start.Year(),
		Month: start.Month(),
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

// PeriodOf returns the month containing t.
func PeriodOf(t time.Time, loc *time.Location) Period {
	t = t.In(loc)
	return NewPeriod(int(t.Month()), t.Year(), loc)
}

// Shift moves the period by n months.
func (p Period) Shift(n int) Period {
	return NewPeriod(int(p.Month)+n, p.Year, p.Start.Location())
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Label renders the period as an Indonesian short month and year, e.g. "Agu 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", shortMonths[p.Month-1], p.Year)
}
