package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
)

type Handler struct {
	svc *dashboard.Service
	now func() time.Time
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.snapshot)
}

// StatsRoutes mounts the lifetime statistics under the user routes.
func (h *Handler) StatsRoutes(r chi.Router) {
	r.Get("/stats", h.stats)
}

// snapshot serves GET ?month&year. Missing values default to the current
// month; out of range integers roll over.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.svc.Location())

	month, ok := intParam(r, "month", int(now.Month()))
	if !ok {
		respond.Error(w, http.StatusBadRequest, "month must be an integer")
		return
	}

	year, ok := intParam(r, "year", now.Year())
	if !ok {
		respond.Error(w, http.StatusBadRequest, "year must be an integer")
		return
	}

	snap, err := h.svc.Compute(r.Context(), session.Credentials(r), month, year)
	if err != nil {
		respond.InternalError(w, r, "failed to compute dashboard", err)
		return
	}

	respond.JSON(w, http.StatusOK, toSnapshotResponse(snap))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), session.Credentials(r))
	if err != nil {
		respond.InternalError(w, r, "failed to compute stats", err)
		return
	}

	respond.JSON(w, http.StatusOK, toStatsResponse(stats))
}

func intParam(r *http.Request, name string, fallback int) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, true
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return v, true
}
