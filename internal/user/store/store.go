package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/database"
	"github.com/MrJamesThe3rd/bivo/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectUserColumns = `id, name, email, password_hash, is_guest, created_at`

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, is_guest, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.IsGuest).Scan(&u.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	return s.scanOne(ctx, query, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1`

	return s.scanOne(ctx, query, email)
}

func (s *Store) UpdateProfile(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, u.Name, u.Email, u.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("updating user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rows == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (s *Store) scanOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.IsGuest,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return &u, nil
}
