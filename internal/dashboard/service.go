package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=dashboard
type Repository interface {
	SumAmount(ctx context.Context, userID uuid.UUID, typ transaction.Type, p Period) (decimal.Decimal, error)
	GroupByCategory(ctx context.Context, userID uuid.UUID, typ transaction.Type, p Period) ([]CategoryTotal, error)
	FindCategoriesByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*category.Category, error)
	FindRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*transaction.Transaction, error)
	LifetimeStats(ctx context.Context, userID uuid.UUID) (*Stats, error)
}

// Service computes read-only rollups over a user's ledger. Nothing is cached;
// every call reads the current state.
type Service struct {
	repo Repository
	loc  *time.Location
}

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, loc: loc}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Compute builds the snapshot of the given month. Out-of-range months roll
// over into the adjacent year. Any repository error aborts the whole snapshot.
func (s *Service) Compute(ctx context.Context, creds auth.Credentials, month, year int) (*Snapshot, error) {
	period := NewPeriod(month, year, s.loc)
	userID := creds.UserID

	summary, err := s.summarize(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.expensesByCategory(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.FindRecentTransactions(ctx, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("finding recent transactions: %w", err)
	}

	if recent == nil {
		recent = []*transaction.Transaction{}
	}

	trend, err := s.trend(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Summary:            summary,
		ExpensesByCategory: breakdown,
		RecentTransactions: recent,
		MonthlyTrend:       trend,
	}, nil
}

func (s *Service) Stats(ctx context.Context, creds auth.Credentials) (*Stats, error) {
	stats, err := s.repo.LifetimeStats(ctx, creds.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading lifetime stats: %w", err)
	}

	return stats, nil
}

func (s *Service) summarize(ctx context.Context, userID uuid.UUID, p Period) (Summary, error) {
	sums := make(map[transaction.Type]decimal.Decimal, len(transaction.Types))

	for _, typ := range transaction.Types {
		sum, err := s.repo.SumAmount(ctx, userID, typ, p)
		if err != nil {
			return Summary{}, fmt.Errorf("summing %s for %s: %w", typ, p.Label(), err)
		}

		sums[typ] = sum
	}

	income := sums[transaction.TypeIncome]
	expense := sums[transaction.TypeExpense]
	savings := sums[transaction.TypeSavings]

	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		TotalSavings: savings,
		Balance:      income.Sub(expense).Sub(savings),
		Month:        int(p.Month),
		Year:         p.Year,
	}, nil
}

func (s *Service) expensesByCategory(ctx context.Context, userID uuid.UUID, p Period) ([]CategoryExpense, error) {
	totals, err := s.repo.GroupByCategory(ctx, userID, transaction.TypeExpense, p)
	if err != nil {
		return nil, fmt.Errorf("grouping expenses: %w", err)
	}

	breakdown := make([]CategoryExpense, 0, len(totals))
	if len(totals) == 0 {
		return breakdown, nil
	}

	ids := make([]uuid.UUID, 0, len(totals))

	for _, t := range totals {
		if t.CategoryID != nil {
			ids = append(ids, *t.CategoryID)
		}
	}

	byID := make(map[uuid.UUID]*category.Category, len(ids))

	if len(ids) > 0 {
		categories, err := s.repo.FindCategoriesByIDs(ctx, userID, ids)
		if err != nil {
			return nil, fmt.Errorf("resolving categories: %w", err)
		}

		for _, c := range categories {
			byID[c.ID] = c
		}
	}

	for _, t := range totals {
		entry := CategoryExpense{
			CategoryID: t.CategoryID,
			Category:   UnknownCategoryName,
			Color:      UnknownCategoryColor,
			Amount:     t.Amount,
			Count:      t.Count,
		}

		if t.CategoryID != nil {
			if c, ok := byID[*t.CategoryID]; ok {
				entry.Category = c.Name
				entry.Color = c.Color
			}
		}

		breakdown = append(breakdown, entry)
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		if cmp := breakdown[i].Amount.Cmp(breakdown[j].Amount); cmp != 0 {
			return cmp > 0
		}

		return breakdown[i].Category < breakdown[j].Category
	})

	return breakdown, nil
}

// trend summarises the five months before p and p itself, oldest first.
func (s *Service) trend(ctx context.Context, userID uuid.UUID, p Period) ([]TrendPoint, error) {
	points := make([]TrendPoint, trendMonths)

	g, gctx := errgroup.WithContext(ctx)

	for i := range trendMonths {
		month := p.Shift(i - (trendMonths - 1))

		g.Go(func() error {
			summary, err := s.summarize(gctx, userID, month)
			if err != nil {
				return err
			}

			points[i] = TrendPoint{
				Label:   month.Label(),
				Income:  summary.TotalIncome,
				Expense: summary.TotalExpense,
				Savings: summary.TotalSavings,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing trend: %w", err)
	}

	return points, nil
}
