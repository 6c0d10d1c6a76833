package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SumAmount(ctx context.Context, userID uuid.UUID, typ transaction.Type, p dashboard.Period) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date <= $4
	`

	var sum decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, userID, typ, p.Start, p.End).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("summing amounts: %w", err)
	}

	return sum, nil
}

func (s *Store) GroupByCategory(ctx context.Context, userID uuid.UUID, typ transaction.Type, p dashboard.Period) ([]dashboard.CategoryTotal, error) {
	query := `
		SELECT category_id, SUM(amount), COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date <= $4
		GROUP BY category_id
	`

	rows, err := s.db.QueryContext(ctx, query, userID, typ, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("grouping by category: %w", err)
	}
	defer rows.Close()

	totals := []dashboard.CategoryTotal{}

	for rows.Next() {
		var (
			id    uuid.NullUUID
			total dashboard.CategoryTotal
		)

		if err := rows.Scan(&id, &total.Amount, &total.Count); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}

		if id.Valid {
			total.CategoryID = &id.UUID
		}

		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	return totals, nil
}

func (s *Store) FindCategoriesByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*category.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, name, color, created_at
		FROM categories
		WHERE user_id = $1 AND id = ANY($2::uuid[])
	`

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, query, userID, keys)
	if err != nil {
		return nil, fmt.Errorf("finding categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category

	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

func (s *Store) FindRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*transaction.Transaction, error) {
	query := `
		SELECT t.id, t.category_id, t.amount, t.type, t.description, t.date, t.created_at, c.name, c.color
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("finding recent transactions: %w", err)
	}
	defer rows.Close()

	recent := []*transaction.Transaction{}

	for rows.Next() {
		var (
			tx            = transaction.Transaction{UserID: userID}
			typeStr       string
			categoryID    uuid.NullUUID
			categoryName  sql.NullString
			categoryColor sql.NullString
		)

		if err := rows.Scan(
			&tx.ID, &categoryID, &tx.Amount, &typeStr, &tx.Description, &tx.Date, &tx.CreatedAt,
			&categoryName, &categoryColor,
		); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		tx.Type = transaction.Type(typeStr)

		if categoryID.Valid {
			tx.CategoryID = &categoryID.UUID
			tx.Category = &transaction.Category{ID: categoryID.UUID, Name: categoryName.String, Color: categoryColor.String}
		}

		recent = append(recent, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent transactions: %w", err)
	}

	return recent, nil
}

func (s *Store) LifetimeStats(ctx context.Context, userID uuid.UUID) (*dashboard.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0),
			COUNT(DISTINCT category_id)
		FROM transactions
		WHERE user_id = $1
	`

	var stats dashboard.Stats

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalTransactions,
		&stats.TotalIncome,
		&stats.TotalExpense,
		&stats.CategoriesUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("loading lifetime stats: %w", err)
	}

	return &stats, nil
}
