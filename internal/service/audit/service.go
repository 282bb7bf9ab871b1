// Package audit appends the immutable trail entry that accompanies every
// state-changing operation. The trail is best-effort observability, not a
// consistency boundary: a failed append is logged and never rolls back or
// blocks the primary operation.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/workforcehq/records-backend-go/internal/domain/audit"
)

type Recorder struct {
	repo audit.AuditRepository
}

func NewRecorder(repo audit.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record marshals the snapshots and appends the entry. It has no error
// return on purpose; append failures go to the operational log only.
func (r *Recorder) Record(ctx context.Context, actorID *string, action, resourceType, resourceID string, before, after any, requestID, ip string) {
	entry := audit.Entry{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    requestID,
		IPAddress:    ip,
	}

	var err error
	if before != nil {
		entry.Before, err = json.Marshal(before)
		if err != nil {
			slog.Error("audit: failed to marshal before snapshot", "action", action, "resource_id", resourceID, "error", err)
			return
		}
	}
	if after != nil {
		entry.After, err = json.Marshal(after)
		if err != nil {
			slog.Error("audit: failed to marshal after snapshot", "action", action, "resource_id", resourceID, "error", err)
			return
		}
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		slog.Error("audit: failed to append trail entry", "action", action, "resource_type", resourceType, "resource_id", resourceID, "error", err)
	}
}

// List exposes the trail for the admin audit endpoint.
func (r *Recorder) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	return r.repo.List(ctx, filter)
}
