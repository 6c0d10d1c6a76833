package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction expects the columns of selectTransactionColumns in order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var rawDesc, categoryName, categoryColor sql.NullString

	var categoryID uuid.NullUUID

	if err := s.Scan(
		&tx.ID, &tx.UserID, &categoryID, &tx.Amount, &typeStr, &tx.Description, &rawDesc, &tx.Date,
		&tx.CreatedAt, &tx.UpdatedAt,
		&categoryName, &categoryColor,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.RawDescription = rawDesc.String

	if categoryID.Valid {
		tx.CategoryID = &categoryID.UUID
		tx.Category = &transaction.Category{
			ID:    categoryID.UUID,
			Name:  categoryName.String,
			Color: categoryColor.String,
		}
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.user_id, t.category_id, t.amount, t.type, t.description, t.raw_description, t.date,
	t.created_at, t.updated_at, c.name, c.color
`

const fromTransactions = `
	FROM transactions t
	LEFT JOIN categories c ON t.category_id = c.id
`

const insertTransaction = `
	INSERT INTO transactions (user_id, category_id, amount, type, description, raw_description, date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	RETURNING id, created_at
`

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	err := s.db.QueryRowContext(ctx, insertTransaction,
		tx.UserID,
		tx.CategoryID,
		tx.Amount,
		tx.Type,
		tx.Description,
		nullString(tx.RawDescription),
		tx.Date,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.id = $1 AND t.user_id = $2`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.user_id = $1`

	args := []any{userID}

	argIdx := 2

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND t.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	txs := []*transaction.Transaction{}

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $1, amount = $2, type = $3, description = $4, date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.CategoryID,
		tx.Amount,
		tx.Type,
		tx.Description,
		tx.Date,
		tx.ID,
		tx.UserID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rows == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// importLockKey serialises imports of the same user.
func importLockKey(userID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("import"))
	h.Write([]byte{0})
	h.Write(userID[:])

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, userID uuid.UUID) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(userID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, userID uuid.UUID, txs []*transaction.Transaction) ([]*transaction.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date           string
		Amount         string
		Type           transaction.Type
		RawDescription string
	}

	minDate := txs[0].Date
	maxDate := txs[0].Date
	keySet := make(map[lookupKey]struct{}, len(txs))

	for _, tx := range txs {
		if tx.Date.Before(minDate) {
			minDate = tx.Date
		}

		if tx.Date.After(maxDate) {
			maxDate = tx.Date
		}

		keySet[lookupKey{
			Date:           tx.Date.Format(time.DateOnly),
			Amount:         tx.Amount.StringFixed(2),
			Type:           tx.Type,
			RawDescription: tx.RawDescription,
		}] = struct{}{}
	}

	// Widen by a day on each side so rows stored in another offset still match by calendar date.
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3
		ORDER BY t.date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, userID, minDate.AddDate(0, 0, -1), maxDate.AddDate(0, 0, 2))
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		k := lookupKey{
			Date:           tx.Date.In(minDate.Location()).Format(time.DateOnly),
			Amount:         tx.Amount.StringFixed(2),
			Type:           tx.Type,
			RawDescription: tx.RawDescription,
		}

		if _, found := keySet[k]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		err := itx.tx.QueryRowContext(ctx, insertTransaction,
			tx.UserID,
			tx.CategoryID,
			tx.Amount,
			tx.Type,
			tx.Description,
			nullString(tx.RawDescription),
			tx.Date,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}

// EnsureCategory upserts so that a concurrent create of the same name returns
// the existing row instead of failing the import.
func (itx *importTx) EnsureCategory(ctx context.Context, userID uuid.UUID, name string) (*transaction.Category, error) {
	const query = `
		INSERT INTO categories (user_id, name, color, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, color
	`

	var c transaction.Category

	if err := itx.tx.QueryRowContext(ctx, query, userID, name, category.DefaultColor).Scan(&c.ID, &c.Name, &c.Color); err != nil {
		return nil, fmt.Errorf("ensuring category: %w", err)
	}

	return &c, nil
}
