package dashboard

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

const (
	recentLimit = 5
	trendMonths = 6

	UnknownCategoryName  = "Unknown"
	UnknownCategoryColor = "#6B7280"
)

type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	TotalSavings decimal.Decimal
	Balance      decimal.Decimal
	Month        int
	Year         int
}

// CategoryExpense is the expense total of one category within a period.
type CategoryExpense struct {
	CategoryID *uuid.UUID
	Category   string
	Color      string
	Amount     decimal.Decimal
	Count      int
}

type TrendPoint struct {
	Label   string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Savings decimal.Decimal
}

// Snapshot is the dashboard of one user for one month. Slices are never nil.
type Snapshot struct {
	Summary            Summary
	ExpensesByCategory []CategoryExpense
	RecentTransactions []*transaction.Transaction
	MonthlyTrend       []TrendPoint
}

// CategoryTotal is a grouped sum as returned by the repository.
type CategoryTotal struct {
	CategoryID *uuid.UUID
	Amount     decimal.Decimal
	Count      int
}

// Stats are the lifetime totals of a user.
type Stats struct {
	TotalTransactions int
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	CategoriesUsed    int
}
