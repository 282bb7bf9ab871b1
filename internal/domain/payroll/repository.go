package payroll

import (
	"context"
	"time"
)

// PayrollRepository persists payroll records. Create must surface the
// (employee_id, month, year) unique constraint as
// ErrPeriodAlreadyProcessed so a re-run can never silently duplicate a
// period; the existence check and the insert are one atomic statement.
type PayrollRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByPeriod(ctx context.Context, employeeID string, month, year int) (Record, error)
	ListByEmployee(ctx context.Context, employeeID string, filter ListFilter) ([]Record, int64, error)

	// MarkPaid sets paid_at and the payslip reference; it refuses records
	// that are already paid.
	MarkPaid(ctx context.Context, id string, payslipURL *string, paidAt time.Time) error
}
