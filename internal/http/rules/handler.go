package rules

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	"github.com/MrJamesThe3rd/bivo/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type ruleResponse struct {
	ID         uuid.UUID `json:"id"`
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toResponse(rule *matching.Rule) ruleResponse {
	return ruleResponse{
		ID:         rule.ID,
		Pattern:    rule.Pattern,
		CategoryID: rule.CategoryID,
		CreatedAt:  rule.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context(), session.Credentials(r).UserID)
	if err != nil {
		respond.InternalError(w, r, "failed to list rules", err)
		return
	}

	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toResponse(rule)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type suggestResponse struct {
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		respond.Error(w, http.StatusBadRequest, "description query parameter is required")
		return
	}

	categoryID, err := h.svc.Suggest(r.Context(), session.Credentials(r).UserID, desc)
	if err != nil {
		respond.InternalError(w, r, "failed to suggest category", err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Description: desc, CategoryID: categoryID})
}

type learnRequest struct {
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"categoryId"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	rule, err := h.svc.Learn(r.Context(), session.Credentials(r).UserID, req.Pattern, req.CategoryID)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrInvalidPattern):
			respond.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, matching.ErrCategoryNotFound):
			respond.Error(w, http.StatusNotFound, err.Error())
		default:
			respond.InternalError(w, r, "failed to create rule", err)
		}

		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(rule))
}
