package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindMatch compares literally: % and _ in a pattern are ordinary characters.
func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, rawDescription string) (*uuid.UUID, error) {
	query := `
		SELECT category_id
		FROM category_rules
		WHERE user_id = $1 AND strpos(lower($2), lower(pattern)) > 0
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var categoryID uuid.UUID

	err := s.db.QueryRowContext(ctx, query, userID, rawDescription).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return &categoryID, nil
}

func (s *Store) CreateRule(ctx context.Context, rule *matching.Rule) error {
	query := `
		INSERT INTO category_rules (user_id, pattern, category_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, rule.UserID, rule.Pattern, rule.CategoryID).Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context, userID uuid.UUID) ([]*matching.Rule, error) {
	query := `
		SELECT id, user_id, pattern, category_id, created_at
		FROM category_rules
		WHERE user_id = $1
		ORDER BY pattern
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	rules := []*matching.Rule{}

	for rows.Next() {
		var r matching.Rule
		if err := rows.Scan(&r.ID, &r.UserID, &r.Pattern, &r.CategoryID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}
