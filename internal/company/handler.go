package company

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

// Handler exposes company endpoints. Role gating happens in the router; the
// handler only parses, delegates, and writes.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the company routes. The passed router already carries the
// admin middleware chain.
func (h *Handler) Register(r chi.Router) {
	r.Post("/companies", h.handleCreate)
	r.Get("/companies", h.handleList)
	r.Get("/companies/{id}", h.handleGet)
	r.Patch("/companies/{id}/status", h.handleUpdateStatus)
	r.Delete("/companies/{id}", h.handleDelete)
}

type createRequest struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	c, err := h.service.Create(r.Context(), req.Name, req.Ticker)
	if err != nil {
		h.logError(r, "create company failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.List(r.Context())
	if err != nil {
		h.logError(r, "list companies failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, companies)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid company id"))
		return
	}
	c, err := h.service.Get(r.Context(), domain.CompanyID(id))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid company id"))
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	c, err := h.service.UpdateStatus(r.Context(), domain.CompanyID(id), req.Status)
	if err != nil {
		h.logError(r, "update company status failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid company id"))
		return
	}
	if err := h.service.Delete(r.Context(), domain.CompanyID(id)); err != nil {
		h.logError(r, "delete company failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
	}
}
