package importcsv

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bivo/internal/category"
	"github.com/MrJamesThe3rd/bivo/internal/http/respond"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	httptx "github.com/MrJamesThe3rd/bivo/internal/http/transaction"
	"github.com/MrJamesThe3rd/bivo/internal/importer"
	"github.com/MrJamesThe3rd/bivo/internal/importer/parser"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported     int               `json:"imported"`
	Profile      string            `json:"profile,omitempty"`
	Charset      string            `json:"charset,omitempty"`
	Transactions []httptx.Response `json:"transactions"`
}

type conflictDTO struct {
	Incoming httptx.Params   `json:"incoming"`
	Existing httptx.Response `json:"existing"`
}

type importConflictResponse struct {
	New       []httptx.Params `json:"new"`
	Conflicts []conflictDTO   `json:"conflicts"`
}

type confirmRequest struct {
	Params []httptx.Params `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	opts := importer.Options{Profile: r.FormValue("profile")}

	if s := r.FormValue("categoryId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid categoryId")
			return
		}

		opts.FallbackCategoryID = &id
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	userID := session.Credentials(r).UserID

	batch, err := h.importSvc.Import(r.Context(), userID, file, opts)
	if err != nil {
		if isInputError(err) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		respond.InternalError(w, r, "failed to parse import", err)

		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), userID, batch.Params)
	if err != nil {
		writeBatchError(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]httptx.Params, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, httptx.ToParams(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: httptx.ToParams(c.Incoming),
				Existing: httptx.ToResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported:     len(result.Imported),
		Profile:      batch.Profile,
		Charset:      string(batch.Charset),
		Transactions: httptx.ToResponseList(result.Imported),
	})
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, p.CreateParams())
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), session.Credentials(r).UserID, params)
	if err != nil {
		writeBatchError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported:     len(txs),
		Transactions: httptx.ToResponseList(txs),
	})
}

func isInputError(err error) bool {
	for _, target := range []error{
		parser.ErrUnknownProfile,
		parser.ErrNoHeader,
		parser.ErrMalformed,
		parser.ErrNoDescription,
		importer.ErrMissingCategory,
		transaction.ErrInvalidType,
		category.ErrInvalid,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func writeBatchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, transaction.ErrCategoryNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, transaction.ErrInvalid),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrCategoryRequired):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		respond.InternalError(w, r, "failed to import transactions", err)
	}
}
