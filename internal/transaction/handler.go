package transaction

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

// Handler exposes transaction endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the transaction routes. The passed router already carries
// the admin middleware chain.
func (h *Handler) Register(r chi.Router) {
	r.Post("/transactions", h.handleCreate)
	r.Get("/transactions/{id}", h.handleGet)
	r.Get("/companies/{companyID}/transactions", h.handleListByCompany)
	r.Post("/transactions/bulk-approve", h.handleBulkApprove)
	r.Post("/transactions/bulk-reject", h.handleBulkReject)
}

type createRequest struct {
	CompanyID int64  `json:"company_id"`
	Kind      string `json:"kind"`
	Shares    int64  `json:"shares"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	t, err := h.service.Create(r.Context(), CreateInput{
		CompanyID: domain.CompanyID(req.CompanyID),
		Kind:      req.Kind,
		Shares:    req.Shares,
	})
	if err != nil {
		h.logError(r, "create transaction failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid transaction id"))
		return
	}
	t, err := h.service.Get(r.Context(), domain.TransactionID(id))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleListByCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "companyID"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid company id"))
		return
	}
	out, err := h.service.ListByCompany(r.Context(), domain.CompanyID(id))
	if err != nil {
		h.logError(r, "list transactions failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type bulkApproveRequest struct {
	IDs []int64 `json:"ids"`
}

type bulkRejectRequest struct {
	IDs    []int64 `json:"ids"`
	Reason *string `json:"reason,omitempty"`
}

type bulkResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func (h *Handler) handleBulkApprove(w http.ResponseWriter, r *http.Request) {
	var req bulkApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	count, err := h.service.BulkApprove(r.Context(), toTransactionIDs(req.IDs))
	if err != nil {
		h.logError(r, "bulk approve transactions failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bulkResponse{Success: true, Count: count})
}

func (h *Handler) handleBulkReject(w http.ResponseWriter, r *http.Request) {
	var req bulkRejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	count, err := h.service.BulkReject(r.Context(), toTransactionIDs(req.IDs), req.Reason)
	if err != nil {
		h.logError(r, "bulk reject transactions failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bulkResponse{Success: true, Count: count})
}

func toTransactionIDs(raw []int64) []domain.TransactionID {
	ids := make([]domain.TransactionID, 0, len(raw))
	for _, r := range raw {
		ids = append(ids, domain.TransactionID(r))
	}
	return ids
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
	}
}
