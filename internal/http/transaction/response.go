package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

// Response is the JSON form of a transaction, shared by every handler that
// returns ledger rows.
type Response struct {
	ID             uuid.UUID         `json:"id"`
	Amount         decimal.Decimal   `json:"amount"`
	Type           transaction.Type  `json:"type"`
	Description    string            `json:"description"`
	RawDescription string            `json:"rawDescription,omitempty"`
	Date           time.Time         `json:"date"`
	CategoryID     *uuid.UUID        `json:"categoryId"`
	Category       *categoryResponse `json:"category"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      *time.Time        `json:"updatedAt,omitempty"`
}

type categoryResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

func ToResponse(tx *transaction.Transaction) Response {
	resp := Response{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date,
		CategoryID:     tx.CategoryID,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}

	if tx.Category != nil {
		resp.Category = &categoryResponse{
			ID:    tx.Category.ID,
			Name:  tx.Category.Name,
			Color: tx.Category.Color,
		}
	}

	return resp
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}

// Params is the JSON form of a transaction that has not been stored yet.
type Params struct {
	Amount         decimal.Decimal  `json:"amount"`
	Type           transaction.Type `json:"type"`
	CategoryID     *uuid.UUID       `json:"categoryId"`
	CategoryName   string           `json:"categoryName,omitempty"`
	Description    string           `json:"description"`
	RawDescription string           `json:"rawDescription,omitempty"`
	Date           time.Time        `json:"date"`
}

func ToParams(p transaction.CreateParams) Params {
	return Params{
		Amount:         p.Amount,
		Type:           p.Type,
		CategoryID:     p.CategoryID,
		CategoryName:   p.CategoryName,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date,
	}
}

func (p Params) CreateParams() transaction.CreateParams {
	return transaction.CreateParams{
		Amount:         p.Amount,
		Type:           p.Type,
		CategoryID:     p.CategoryID,
		CategoryName:   p.CategoryName,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date,
	}
}
