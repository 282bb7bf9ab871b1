package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/workforcehq/records-backend-go/internal/domain/leave"
	"github.com/workforcehq/records-backend-go/internal/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	id, employee_id, leave_type, year, total_days, used_days, remaining_days,
	created_at, updated_at
`

func scanLeaveBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveType, &b.Year, &b.TotalDays, &b.UsedDays, &b.RemainingDays,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// GetForUpdate implements leave.BalanceRepository. FOR UPDATE holds the row
// lock until the surrounding transaction ends, so only this repository's
// transaction-aware querier may run it.
func (r *leaveBalanceRepository) GetForUpdate(ctx context.Context, employeeID string, leaveType leave.Type, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
		FOR UPDATE
	`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveType, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// Consume implements leave.BalanceRepository. used_days and remaining_days
// move together in one statement so the ledger invariant cannot be observed
// half-applied.
func (r *leaveBalanceRepository) Consume(ctx context.Context, balanceID string, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $1,
		    remaining_days = remaining_days - $1,
		    updated_at = NOW()
		WHERE id = $2
	`

	tag, err := q.Exec(ctx, query, days, balanceID)
	if err != nil {
		return fmt.Errorf("failed to consume leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

// Upsert implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Upsert(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type, year, total_days, used_days, remaining_days
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (employee_id, leave_type, year) DO UPDATE SET
			total_days = EXCLUDED.total_days,
			remaining_days = EXCLUDED.total_days - leave_balances.used_days,
			updated_at = NOW()
		RETURNING ` + leaveBalanceColumns + `
	`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query,
		balance.EmployeeID,
		balance.LeaveType,
		balance.Year,
		balance.TotalDays,
		balance.UsedDays,
		balance.RemainingDays,
	))
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return b, nil
}

// ListByEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		var b leave.Balance
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveType, &b.Year, &b.TotalDays, &b.UsedDays, &b.RemainingDays,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, nil
}
