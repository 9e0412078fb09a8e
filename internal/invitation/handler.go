package invitation

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

// Handler exposes invitation endpoints. Admin management routes and public
// token routes register separately because they sit behind different
// middleware chains.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the admin invitation routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/invitations", h.handleCreate)
	r.Get("/invitations", h.handleList)
	r.Get("/invitations/{id}", h.handleGet)
	r.Post("/invitations/{id}/resend", h.handleResend)
	r.Post("/invitations/{id}/revoke", h.handleRevoke)
}

// RegisterPublic mounts the token routes reachable without a full login.
// Accept still reads the caller's identity when OptionalAuth put one in the
// context.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/invitations/token/{token}", h.handleGetByToken)
	r.Post("/invitations/token/{token}/accept", h.handleAccept)
}

type createRequest struct {
	Email         string `json:"email"`
	Role          string `json:"role"`
	CompanyID     *int64 `json:"company_id,omitempty"`
	Message       string `json:"message,omitempty"`
	ExpiresInDays int    `json:"expires_in_days,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	in := CreateInput{
		Email:         req.Email,
		Role:          domain.Role(req.Role),
		Message:       req.Message,
		ExpiresInDays: req.ExpiresInDays,
	}
	if req.CompanyID != nil {
		cid := domain.CompanyID(*req.CompanyID)
		in.CompanyID = &cid
	}
	inv, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logError(r, "create invitation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inv)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	if err != nil {
		h.logError(r, "list invitations failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid invitation id"))
		return
	}
	inv, err := h.service.Get(r.Context(), domain.InvitationID(id))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleResend(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid invitation id"))
		return
	}
	inv, err := h.service.Resend(r.Context(), domain.InvitationID(id))
	if err != nil {
		h.logError(r, "resend invitation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	id, ok := domain.ParseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid invitation id"))
		return
	}
	inv, err := h.service.Revoke(r.Context(), domain.InvitationID(id))
	if err != nil {
		h.logError(r, "revoke invitation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleGetByToken(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.logError(r, "get invitation by token failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Accept(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.logError(r, "accept invitation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
	}
}
