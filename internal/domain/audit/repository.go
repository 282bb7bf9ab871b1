package audit

import "context"

type AuditRepository interface {
	// Append inserts an entry; the table is insert-only.
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, int64, error)
}
