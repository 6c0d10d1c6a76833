package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/events"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error

	BeginImport(ctx context.Context, userID uuid.UUID) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, userID uuid.UUID, txs []*Transaction) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	// EnsureCategory returns the user's category called name, creating it when missing.
	EnsureCategory(ctx context.Context, userID uuid.UUID, name string) (*Category, error)
	Commit() error
	Rollback() error
}

// CategoryLookup resolves a category owned by the user.
type CategoryLookup interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*category.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryLookup
	publisher  events.Publisher
	now        func() time.Time
}

func NewService(repo Repository, categories CategoryLookup, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		now:        time.Now,
	}
}

type CreateParams struct {
	Amount         decimal.Decimal
	Type           Type
	CategoryID     *uuid.UUID
	CategoryName   string // batch only: created inside the import when CategoryID is nil
	Description    string
	RawDescription string
	Date           time.Time // zero means now
}

type UpdateParams struct {
	Amount      *decimal.Decimal
	Type        *Type
	CategoryID  *uuid.UUID
	Description *string
	Date        *time.Time
}

type ListFilter struct {
	Type       *Type
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Transaction, error) {
	tx := s.newTransaction(userID, params)

	if err := s.validate(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, events.KindTransactionCreated, tx)

	return tx, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

// Update applies the non-nil fields of params and re-validates the result.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.CategoryID != nil {
		tx.CategoryID = params.CategoryID
	}

	if params.Description != nil {
		tx.Description = strings.TrimSpace(*params.Description)
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if err := s.validate(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publish(ctx, events.KindTransactionUpdated, tx)

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	s.publish(ctx, events.KindTransactionDeleted, &Transaction{ID: id, UserID: userID})

	return nil
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date           string
	Amount         string
	Type           Type
	RawDescription string
}

func newDupKey(date time.Time, amount decimal.Decimal, typ Type, raw string) dupKey {
	return dupKey{
		Date:           date.Format(time.DateOnly),
		Amount:         amount.StringFixed(2),
		Type:           typ,
		RawDescription: raw,
	}
}

// ImportBatch stores params unless any of them already exists in the user's
// ledger. On conflict nothing is written and the split is returned for review.
func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	txs, pending, err := s.prepareBatch(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	itx, err := s.repo.BeginImport(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, userID, txs)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	loc := txs[0].Date.Location()

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[newDupKey(d.Date.In(loc), d.Amount, d.Type, d.RawDescription)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for i, p := range params {
		tx := txs[i]

		existing, found := lookup[newDupKey(tx.Date, tx.Amount, tx.Type, tx.RawDescription)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	if err := ensureCategories(ctx, itx, userID, txs, pending); err != nil {
		return nil, err
	}

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.publishAll(ctx, events.KindTransactionImported, txs)

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch stores params without duplicate detection, e.g. after the user
// reviewed the conflicts of an ImportBatch.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs, pending, err := s.prepareBatch(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	itx, err := s.repo.BeginImport(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if err := ensureCategories(ctx, itx, userID, txs, pending); err != nil {
		return nil, err
	}

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.publishAll(ctx, events.KindTransactionImported, txs)

	return txs, nil
}

// prepareBatch validates every row. pending[i] holds the trimmed category
// name of a row whose category does not exist yet.
func (s *Service) prepareBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Transaction, []string, error) {
	txs := make([]*Transaction, len(params))
	pending := make([]string, len(params))

	for i, p := range params {
		tx := s.newTransaction(userID, p)

		name := strings.TrimSpace(p.CategoryName)

		var err error
		if tx.CategoryID == nil && name != "" {
			err = validateFields(tx)
			pending[i] = name
		} else {
			err = s.validate(ctx, tx)
		}

		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		txs[i] = tx
	}

	return txs, pending, nil
}

// ensureCategories creates the pending categories inside itx and links them.
func ensureCategories(ctx context.Context, itx ImportTx, userID uuid.UUID, txs []*Transaction, pending []string) error {
	created := make(map[string]*Category)

	for i, name := range pending {
		if name == "" {
			continue
		}

		c, ok := created[name]
		if !ok {
			var err error

			c, err = itx.EnsureCategory(ctx, userID, name)
			if err != nil {
				return fmt.Errorf("creating category %q: %w", name, err)
			}

			created[name] = c
		}

		txs[i].CategoryID = &c.ID
		txs[i].Category = c
	}

	return nil
}

func (s *Service) newTransaction(userID uuid.UUID, p CreateParams) *Transaction {
	date := p.Date
	if date.IsZero() {
		date = s.now()
	}

	return &Transaction{
		UserID:         userID,
		CategoryID:     p.CategoryID,
		Amount:         p.Amount,
		Type:           p.Type,
		Description:    strings.TrimSpace(p.Description),
		RawDescription: p.RawDescription,
		Date:           date,
	}
}

// validate checks tx and loads its category, which must belong to the owner.
func (s *Service) validate(ctx context.Context, tx *Transaction) error {
	if err := validateFields(tx); err != nil {
		return err
	}

	if tx.CategoryID == nil {
		if tx.Type.RequiresCategory() {
			return ErrCategoryRequired
		}

		tx.Category = nil

		return nil
	}

	c, err := s.categories.Get(ctx, tx.UserID, *tx.CategoryID)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return ErrCategoryNotFound
		}

		return fmt.Errorf("loading category: %w", err)
	}

	tx.Category = &Category{ID: c.ID, Name: c.Name, Color: c.Color}

	return nil
}

func validateFields(tx *Transaction) error {
	if tx.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalid)
	}

	if !tx.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, tx.Type)
	}

	if !tx.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}

func (s *Service) publish(ctx context.Context, kind events.Kind, tx *Transaction) {
	err := s.publisher.Publish(ctx, events.Event{
		Kind:          kind,
		UserID:        tx.UserID,
		TransactionID: tx.ID,
		At:            s.now(),
	})
	if err != nil {
		slog.Error("failed to publish ledger event", "kind", kind, "transaction_id", tx.ID, "error", err)
	}
}

func (s *Service) publishAll(ctx context.Context, kind events.Kind, txs []*Transaction) {
	for _, tx := range txs {
		s.publish(ctx, kind, tx)
	}
}
