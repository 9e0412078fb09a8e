package dtc

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/httputil"
	"registrar/pkg/requestcontext"
)

// Handler exposes DTC request endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the DTC routes. The passed router already carries the
// admin middleware chain.
func (h *Handler) Register(r chi.Router) {
	r.Post("/dtc-requests", h.handleCreate)
	r.Get("/dtc-requests/{id}", h.handleGet)
	r.Get("/companies/{companyID}/dtc-requests", h.handleListByCompany)
	r.Post("/dtc-requests/bulk-status", h.handleBulkUpdateStatus)
}

type createRequest struct {
	CompanyID     int64  `json:"company_id"`
	ShareholderID int64  `json:"shareholder_id"`
	Direction     string `json:"direction"`
	Shares        int64  `json:"shares"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	out, err := h.service.Create(r.Context(), CreateInput{
		CompanyID:     domain.CompanyID(req.CompanyID),
		ShareholderID: domain.ShareholderID(req.ShareholderID),
		Direction:     Direction(req.Direction),
		Shares:        req.Shares,
	})
	if err != nil {
		h.logError(r, "create dtc request failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid dtc request id"))
		return
	}
	out, err := h.service.Get(r.Context(), domain.DTCRequestID(id))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListByCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "companyID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid company id"))
		return
	}
	out, err := h.service.ListByCompany(r.Context(), domain.CompanyID(id))
	if err != nil {
		h.logError(r, "list dtc requests failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type bulkStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status Status  `json:"status"`
}

type bulkResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func (h *Handler) handleBulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ids := make([]domain.DTCRequestID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		ids = append(ids, domain.DTCRequestID(raw))
	}
	count, err := h.service.BulkUpdateStatus(r.Context(), ids, req.Status)
	if err != nil {
		h.logError(r, "bulk update dtc requests failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bulkResponse{Success: true, Count: count})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
	}
}
