package http

import (
	"net/http"

	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/handler/http/response"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type AuditHandlerImpl struct {
	recorder *auditservice.Recorder
}

func NewAuditHandler(recorder *auditservice.Recorder) AuditHandler {
	return &AuditHandlerImpl{recorder: recorder}
}

// List implements AuditHandler.
func (h *AuditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 50)
	filter := audit.Filter{
		Action:       optionalQuery(r, "action"),
		ResourceType: optionalQuery(r, "resource_type"),
		ActorID:      optionalQuery(r, "actor_id"),
		Page:         page,
		Limit:        limit,
	}

	entries, total, err := h.recorder.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, entries, paginationMeta(page, limit, total))
}
