package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bivo/internal/export"
	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	httptx "github.com/MrJamesThe3rd/bivo/internal/http/transaction"
)

type Handler struct {
	svc *export.Service
	loc *time.Location
}

func NewHandler(svc *export.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

// exportRequest bounds are calendar days; both are inclusive.
type exportRequest struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type exportMetadataResponse struct {
	Transactions []httptx.Response `json:"transactions"`
	Summary      string            `json:"summary"`
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	report, ok := h.export(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, exportMetadataResponse{
		Transactions: httptx.ToResponseList(report.Transactions),
		Summary:      report.Summary,
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	report, ok := h.export(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.WriteArchive(&buf, report); err != nil {
		respond.InternalError(w, r, "failed to create zip", err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"bivo_export_%s.zip\"", time.Now().In(h.loc).Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		respond.InternalError(w, r, "failed to write zip", err)
	}
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) (*export.Report, bool) {
	var req exportRequest
	if !respond.Decode(w, r, &req) {
		return nil, false
	}

	start, err := h.parseDay(req.StartDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid startDate")
		return nil, false
	}

	end, err := h.parseDay(req.EndDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid endDate")
		return nil, false
	}

	if end != nil {
		end = new(end.AddDate(0, 0, 1).Add(-time.Nanosecond))
	}

	report, err := h.svc.Export(r.Context(), session.Credentials(r).UserID, start, end)
	if err != nil {
		respond.InternalError(w, r, "failed to export transactions", err)
		return nil, false
	}

	return report, true
}

func (h *Handler) parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, s, h.loc)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
