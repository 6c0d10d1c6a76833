package category

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type categoryResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Color            string    `json:"color"`
	TransactionCount int       `json:"transactionCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toResponse(c *category.Category) categoryResponse {
	return categoryResponse{
		ID:               c.ID,
		Name:             c.Name,
		Color:            c.Color,
		TransactionCount: c.TransactionCount,
		CreatedAt:        c.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context(), session.Credentials(r).UserID)
	if err != nil {
		respond.InternalError(w, r, "failed to list categories", err)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Create(r.Context(), session.Credentials(r).UserID, category.CreateParams{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, "failed to create category", err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

type updateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateCategoryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Update(r.Context(), session.Credentials(r).UserID, id, category.UpdateParams{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, "failed to update category", err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), session.Credentials(r).UserID, id); err != nil {
		writeError(w, r, "failed to delete category", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, category.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "category not found")
	case errors.Is(err, category.ErrInUse):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, category.ErrDuplicateName), errors.Is(err, category.ErrInvalid):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		respond.InternalError(w, r, msg, err)
	}
}
