package certificate

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

// Handler exposes certificate endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the certificate routes. The passed router already carries
// the admin middleware chain.
func (h *Handler) Register(r chi.Router) {
	r.Post("/certificates", h.handleCreate)
	r.Get("/certificates/{id}", h.handleGet)
	r.Get("/shareholders/{shareholderID}/certificates", h.handleListByShareholder)
	r.Post("/certificates/bulk-cancel", h.handleBulkCancel)
}

type createRequest struct {
	ShareholderID int64  `json:"shareholder_id"`
	ShareClassID  int64  `json:"share_class_id"`
	Number        string `json:"certificate_number"`
	Shares        int64  `json:"shares"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	c, err := h.service.Create(r.Context(), CreateInput{
		ShareholderID: domain.ShareholderID(req.ShareholderID),
		ShareClassID:  domain.ShareClassID(req.ShareClassID),
		Number:        req.Number,
		Shares:        req.Shares,
	})
	if err != nil {
		h.logError(r, "create certificate failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid certificate id"))
		return
	}
	c, err := h.service.Get(r.Context(), domain.CertificateID(id))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleListByShareholder(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "shareholderID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid shareholder id"))
		return
	}
	out, err := h.service.ListByShareholder(r.Context(), domain.ShareholderID(id))
	if err != nil {
		h.logError(r, "list certificates failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type bulkCancelRequest struct {
	IDs []int64 `json:"ids"`
}

type bulkResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func (h *Handler) handleBulkCancel(w http.ResponseWriter, r *http.Request) {
	var req bulkCancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ids := make([]domain.CertificateID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		ids = append(ids, domain.CertificateID(raw))
	}
	count, err := h.service.BulkCancel(r.Context(), ids)
	if err != nil {
		h.logError(r, "bulk cancel certificates failed", err)
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
