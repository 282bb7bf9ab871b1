package postgresql

import (
	"context"
	"fmt"

	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}

// Append implements audit.AuditRepository. Entries only ever get inserted;
// there is no update or delete path through this type.
func (r *auditRepository) Append(ctx context.Context, entry audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_entries (
			id, actor_id, action, resource_type, resource_id, before, after,
			request_id, ip_address
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := q.Exec(ctx, query,
		entry.ActorID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Before,
		entry.After,
		entry.RequestID,
		entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// List implements audit.AuditRepository.
func (r *auditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ""
	args := []any{}
	addClause := func(clause string, value any) {
		args = append(args, value)
		if where == "" {
			where = "WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.Action != nil {
		addClause("action = $%d", *filter.Action)
	}
	if filter.ResourceType != nil {
		addClause("resource_type = $%d", *filter.ResourceType)
	}
	if filter.ActorID != nil {
		addClause("actor_id = $%d", *filter.ActorID)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(1) FROM audit_entries "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := fmt.Sprintf(`
		SELECT id, actor_id, action, resource_type, resource_id, before, after,
		       request_id, ip_address, created_at
		FROM audit_entries
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(
			&e.ID, &e.ActorID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Before, &e.After,
			&e.RequestID, &e.IPAddress, &e.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}

	return entries, total, nil
}
