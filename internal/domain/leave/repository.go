package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

type BalanceRepository interface {
	// GetForUpdate reads the balance row for (employee, type, year) with a
	// row lock, so an approval's balance check and decrement are atomic.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, employeeID string, leaveType Type, year int) (Balance, error)

	// Consume adds days to used_days and subtracts them from
	// remaining_days in one statement.
	Consume(ctx context.Context, balanceID string, days decimal.Decimal) error

	Upsert(ctx context.Context, balance Balance) (Balance, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]Balance, error)
}

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)

	// UpdateStatus transitions a request out of pending. The WHERE clause
	// matches status = 'pending' so a concurrent decision loses cleanly;
	// it returns ErrNotPending when no row was updated.
	UpdateStatus(ctx context.Context, req DecisionUpdate) error

	ListByEmployee(ctx context.Context, employeeID string, filter RequestFilter) ([]Request, int64, error)
	ListPending(ctx context.Context, filter RequestFilter) ([]Request, int64, error)
}
