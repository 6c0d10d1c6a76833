package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectCategoryColumns = `c.id, c.user_id, c.name, c.color, c.created_at`

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (user_id, name, color, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.UserID, c.Name, c.Color).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return category.ErrDuplicateName
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

// CreateCategories inserts the seeds in a single transaction, skipping names
// the user already has.
func (s *Store) CreateCategories(ctx context.Context, userID uuid.UUID, seeds []category.Seed) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO categories (user_id, name, color, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, name) DO NOTHING
	`

	for _, seed := range seeds {
		if _, err := dbTx.ExecContext(ctx, query, userID, seed.Name, seed.Color); err != nil {
			return fmt.Errorf("seeding category %q: %w", seed.Name, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories c
		WHERE c.id = $1 AND c.user_id = $2`

	var c category.Category

	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return &c, nil
}

func (s *Store) FindByName(ctx context.Context, userID uuid.UUID, name string) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories c
		WHERE c.user_id = $1 AND LOWER(c.name) = LOWER($2)`

	var c category.Category

	err := s.db.QueryRowContext(ctx, query, userID, name).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("finding category by name: %w", err)
	}

	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `, COUNT(t.id)
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category

	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.TransactionCount); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $1, color = $2
		WHERE id = $3 AND user_id = $4
	`

	res, err := s.db.ExecContext(ctx, query, c.Name, c.Color, c.ID, c.UserID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return category.ErrDuplicateName
		}

		return fmt.Errorf("updating category: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return category.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return category.ErrInUse
		}

		return fmt.Errorf("deleting category: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return category.ErrNotFound
	}

	return nil
}

func (s *Store) IsReferenced(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE user_id = $1 AND category_id = $2)
		    OR EXISTS (SELECT 1 FROM category_rules WHERE user_id = $1 AND category_id = $2)
	`

	var referenced bool
	if err := s.db.QueryRowContext(ctx, query, userID, id).Scan(&referenced); err != nil {
		return false, fmt.Errorf("checking category references: %w", err)
	}

	return referenced, nil
}
