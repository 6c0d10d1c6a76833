package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type determines the meaning of a transaction's amount.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
	TypeSavings Type = "SAVINGS"
)

// Types lists every transaction type in display order.
var Types = []Type{TypeIncome, TypeExpense, TypeSavings}

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrInvalid          = errors.New("invalid transaction")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrCategoryRequired = errors.New("category is required")
	ErrCategoryNotFound = errors.New("category not found")
)

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeSavings:
		return true
	}

	return false
}

// RequiresCategory reports whether transactions of this type must carry a category.
func (t Type) RequiresCategory() bool {
	return t != TypeSavings
}

// ParseType accepts the type name in any case.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}

	return t, nil
}

// Transaction is a single ledger entry. Amount is never negative; the sign
// is implied by Type.
type Transaction struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Category       *Category // Loaded via JOIN
	Amount         decimal.Decimal
	Type           Type
	Description    string
	RawDescription string
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Category is the subset of a category carried along with a transaction.
type Category struct {
	ID    uuid.UUID
	Name  string
	Color string
}
