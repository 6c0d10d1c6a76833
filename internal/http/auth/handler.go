package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	httpuser "github.com/MrJamesThe3rd/bivo/internal/http/user"
	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	"github.com/MrJamesThe3rd/bivo/internal/user"
)

type Handler struct {
	users   *user.Service
	cookies *session.Cookies
}

func NewHandler(users *user.Service, cookies *session.Cookies) *Handler {
	return &Handler{users: users, cookies: cookies}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(session.Require(h.cookies.Tokens)).Get("/me", h.me)
}

func (h *Handler) GuestRoutes(r chi.Router) {
	r.Post("/", h.guest)
}

type userEnvelope struct {
	Message string            `json:"message,omitempty"`
	User    httpuser.Response `json:"user"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			respond.Error(w, http.StatusBadRequest, "Email sudah terdaftar")
		case errors.Is(err, user.ErrInvalid):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			respond.InternalError(w, r, "failed to register user", err)
		}

		return
	}

	respond.JSON(w, http.StatusCreated, userEnvelope{Message: "Registrasi berhasil", User: httpuser.ToResponse(u)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			respond.Error(w, http.StatusUnauthorized, "Email atau password salah")
		case errors.Is(err, user.ErrInvalid):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			respond.InternalError(w, r, "failed to authenticate", err)
		}

		return
	}

	h.startSession(w, r, u, "Login berhasil")
}

type guestRequest struct {
	GuestID *uuid.UUID `json:"guestId"`
	Name    string     `json:"name"`
}

func (h *Handler) guest(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := user.GuestParams{Name: req.Name}
	if req.GuestID != nil {
		params.ID = *req.GuestID
	}

	u, err := h.users.EnsureGuest(r.Context(), params)
	if err != nil {
		if errors.Is(err, user.ErrInvalid) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		respond.InternalError(w, r, "failed to start guest session", err)

		return
	}

	h.startSession(w, r, u, "Mode tamu aktif")
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Logout berhasil"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), session.Credentials(r).UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}

		respond.InternalError(w, r, "failed to load user", err)

		return
	}

	respond.JSON(w, http.StatusOK, userEnvelope{User: httpuser.ToResponse(u)})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, u *user.User, msg string) {
	if err := h.cookies.Set(w, auth.Credentials{UserID: u.ID, Email: u.EmailAddress()}); err != nil {
		respond.InternalError(w, r, "failed to issue session", err)
		return
	}

	respond.JSON(w, http.StatusOK, userEnvelope{Message: msg, User: httpuser.ToResponse(u)})
}
