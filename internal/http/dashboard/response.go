package dashboard

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	httptx "github.com/MrJamesThe3rd/bivo/internal/http/transaction"
)

type summaryResponse struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	TotalSavings decimal.Decimal `json:"totalSavings"`
	Balance      decimal.Decimal `json:"balance"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
}

type categoryExpenseResponse struct {
	CategoryID *uuid.UUID      `json:"categoryId,omitempty"`
	Category   string          `json:"category"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
}

type trendResponse struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Savings decimal.Decimal `json:"savings"`
}

type snapshotResponse struct {
	Summary            summaryResponse           `json:"summary"`
	ExpensesByCategory []categoryExpenseResponse `json:"expensesByCategory"`
	RecentTransactions []httptx.Response         `json:"recentTransactions"`
	MonthlyTrend       []trendResponse           `json:"monthlyTrend"`
}

type statsResponse struct {
	TotalTransactions int             `json:"totalTransactions"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	CategoriesUsed    int             `json:"categoriesUsed"`
}

func toSnapshotResponse(s *dashboard.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		Summary:            toSummaryResponse(s.Summary),
		ExpensesByCategory: make([]categoryExpenseResponse, len(s.ExpensesByCategory)),
		RecentTransactions: httptx.ToResponseList(s.RecentTransactions),
		MonthlyTrend:       make([]trendResponse, len(s.MonthlyTrend)),
	}

	for i, e := range s.ExpensesByCategory {
		resp.ExpensesByCategory[i] = categoryExpenseResponse{
			CategoryID: e.CategoryID,
			Category:   e.Category,
			Color:      e.Color,
			Amount:     e.Amount,
			Count:      e.Count,
		}
	}

	for i, p := range s.MonthlyTrend {
		resp.MonthlyTrend[i] = trendResponse{
			Month:   p.Label,
			Income:  p.Income,
			Expense: p.Expense,
			Savings: p.Savings,
		}
	}

	return resp
}

func toSummaryResponse(s dashboard.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		TotalSavings: s.TotalSavings,
		Balance:      s.Balance,
		Month:        s.Month,
		Year:         s.Year,
	}
}

func toStatsResponse(s *dashboard.Stats) statsResponse {
	return statsResponse{
		TotalTransactions: s.TotalTransactions,
		TotalIncome:       s.TotalIncome,
		TotalExpense:      s.TotalExpense,
		CategoriesUsed:    s.CategoriesUsed,
	}
}
