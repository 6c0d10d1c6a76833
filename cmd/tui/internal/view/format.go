package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/currency"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders an amount without decimals, signed by transaction type.
func FormatAmount(amount decimal.Decimal, typ transaction.Type) string {
	if typ == transaction.TypeIncome {
		return "+" + currency.Compact(amount)
	}

	return "-" + currency.Compact(amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
