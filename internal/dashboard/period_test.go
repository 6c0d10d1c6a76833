package dashboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
)

func TestNewPeriod(t *testing.T) {
	tests := []struct {
		name      string
		month     int
		year      int
		wantMonth time.Month
		wantYear  int
		wantEnd   string
	}{
		{name: "March", month: 3, year: 2025, wantMonth: time.March, wantYear: 2025, wantEnd: "2025-03-31 23:59:59"},
		{name: "LeapFebruary", month: 2, year: 2024, wantMonth: time.February, wantYear: 2024, wantEnd: "2024-02-29 23:59:59"},
		{name: "Thirteen", month: 13, year: 2024, wantMonth: time.January, wantYear: 2025, wantEnd: "2025-01-31 23:59:59"},
		{name: "Zero", month: 0, year: 2025, wantMonth: time.December, wantYear: 2024, wantEnd: "2024-12-31 23:59:59"},
		{name: "Negative", month: -1, year: 2025, wantMonth: time.November, wantYear: 2024, wantEnd: "2024-11-30 23:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dashboard.NewPeriod(tt.month, tt.year, time.UTC)

			assert.Equal(t, tt.wantMonth, p.Month)
			assert.Equal(t, tt.wantYear, p.Year)
			assert.Equal(t, 1, p.Start.Day())
			assert.Equal(t, tt.wantEnd, p.End.Format(time.DateTime))
		})
	}
}

func TestPeriod_Contains(t *testing.T) {
	p := dashboard.NewPeriod(3, 2025, time.UTC)

	assert.True(t, p.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 3, 31, 23, 59, 59, 999, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)))
}

func TestPeriod_ShiftAndLabel(t *testing.T) {
	p := dashboard.NewPeriod(2, 2025, time.UTC)

	assert.Equal(t, "Feb 2025", p.Label())
	assert.Equal(t, "Sep 2024", p.Shift(-5).Label())
	assert.Equal(t, "Jan 2026", p.Shift(11).Label())
}

func TestPeriod_Label_Indonesian(t *testing.T) {
	tests := []struct {
		month int
		want  string
	}{
		{month: 1, want: "Jan 2024"},
		{month: 5, want: "Mei 2024"},
		{month: 8, want: "Agu 2024"},
		{month: 10, want: "Okt 2024"},
		{month: 12, want: "Des 2024"},
		{month: 13, want: "Jan 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, dashboard.NewPeriod(tt.month, 2024, time.UTC).Label())
		})
	}
}

func TestPeriodOf_UsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	// 2025-02-28 20:00 UTC is already March 1st in Jakarta.
	p := dashboard.PeriodOf(time.Date(2025, 2, 28, 20, 0, 0, 0, time.UTC), jakarta)
	assert.Equal(t, time.March, p.Month)
	assert.Equal(t, 2025, p.Year)
}
