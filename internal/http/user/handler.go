package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	"github.com/MrJamesThe3rd/bivo/internal/user"
)

// Response is the public view of a user; the password hash never leaves the service.
type Response struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	IsGuest   bool      `json:"isGuest"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToResponse(u *user.User) Response {
	return Response{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsGuest:   u.IsGuest,
		CreatedAt: u.CreatedAt,
	}
}

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Put("/", h.update)
	r.Put("/update", h.update)
}

type updateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updateResponse struct {
	Message string   `json:"message"`
	User    Response `json:"user"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), session.Credentials(r).UserID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			respond.Error(w, http.StatusBadRequest, "Email sudah digunakan")
		case errors.Is(err, user.ErrInvalid):
			respond.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "user not found")
		default:
			respond.InternalError(w, r, "failed to update profile", err)
		}

		return
	}

	respond.JSON(w, http.StatusOK, updateResponse{Message: "Profil berhasil diperbarui", User: ToResponse(u)})
}
