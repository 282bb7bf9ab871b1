package payroll

import (
	"context"
)

type PayrollService interface {
	Run(ctx context.Context, req RunRequest) (RecordResponse, error)
	GetCurrent(ctx context.Context) (RecordResponse, error)
	ListMine(ctx context.Context, filter ListFilter) ([]RecordResponse, int64, error)
	MarkPaid(ctx context.Context, recordID string) (RecordResponse, error)
}
