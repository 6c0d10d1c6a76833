package transaction

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
	loc *time.Location
}

func NewHandler(svc *transaction.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Amount      decimal.Decimal  `json:"amount"`
	Type        transaction.Type `json:"type"`
	CategoryID  *uuid.UUID       `json:"categoryId"`
	Description string           `json:"description"`
	Date        *requestDate     `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := transaction.CreateParams{
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}

	if req.Date != nil {
		params.Date = req.Date.In(h.loc)
	}

	tx, err := h.svc.Create(r.Context(), session.Credentials(r).UserID, params)
	if err != nil {
		writeError(w, r, "failed to create transaction", err)
		return
	}

	respond.JSON(w, http.StatusCreated, ToResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("type"); s != "" {
		typ, err := transaction.ParseType(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid type")
			return
		}

		filter.Type = &typ
	}

	if s := q.Get("categoryId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid categoryId")
			return
		}

		filter.CategoryID = &id
	}

	if s := q.Get("startDate"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid startDate")
			return
		}

		filter.StartDate = &t
	}

	if s := q.Get("endDate"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid endDate")
			return
		}

		// Whole day inclusive.
		filter.EndDate = new(t.AddDate(0, 0, 1).Add(-time.Nanosecond))
	}

	txs, err := h.svc.List(r.Context(), session.Credentials(r).UserID, filter)
	if err != nil {
		respond.InternalError(w, r, "failed to list transactions", err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	tx, err := h.svc.Get(r.Context(), session.Credentials(r).UserID, id)
	if err != nil {
		writeError(w, r, "failed to get transaction", err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponse(tx))
}

type updateTransactionRequest struct {
	Amount      *decimal.Decimal  `json:"amount,omitempty"`
	Type        *transaction.Type `json:"type,omitempty"`
	CategoryID  *uuid.UUID        `json:"categoryId,omitempty"`
	Description *string           `json:"description,omitempty"`
	Date        *requestDate      `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := transaction.UpdateParams{
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}

	if req.Date != nil {
		params.Date = new(req.Date.In(h.loc))
	}

	tx, err := h.svc.Update(r.Context(), session.Credentials(r).UserID, id, params)
	if err != nil {
		writeError(w, r, "failed to update transaction", err)
		return
	}

	respond.JSON(w, http.StatusOK, ToResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), session.Credentials(r).UserID, id); err != nil {
		writeError(w, r, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps ledger validation errors to 4xx and anything else to 500.
func writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, transaction.ErrCategoryNotFound):
		respond.Error(w, http.StatusNotFound, "category not found")
	case errors.Is(err, transaction.ErrInvalid),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrCategoryRequired):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		respond.InternalError(w, r, msg, err)
	}
}
