package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/httputil"
)

// Handler exposes the audit trail read endpoint.
type Handler struct {
	publisher *Publisher
}

func NewHandler(publisher *Publisher) *Handler {
	return &Handler{publisher: publisher}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/audit-events", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	if entityType == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "entity_type is required"))
		return
	}
	entityID, ok := domain.ParseID(r.URL.Query().Get("entity_id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid entity_id"))
		return
	}
	events, err := h.publisher.List(r.Context(), entityType, entityID)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}
