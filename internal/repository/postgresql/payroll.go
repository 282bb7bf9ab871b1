package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/payroll"
	"github.com/workforcehq/records-backend-go/internal/pkg/database"

	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.month, p.year, p.base_salary, p.bonuses, p.overtime,
	p.deductions, p.tax, p.net_salary, p.days_worked, p.days_absent,
	p.payslip_url, p.paid_at, p.created_at, p.updated_at
`

func scanPayroll(row pgx.Row, withEmployee bool) (payroll.Record, error) {
	var p payroll.Record
	dest := []any{
		&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BaseSalary, &p.Bonuses, &p.Overtime,
		&p.Deductions, &p.Tax, &p.NetSalary, &p.DaysWorked, &p.DaysAbsent,
		&p.PayslipURL, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &p.EmployeeName)
	}
	err := row.Scan(dest...)
	return p, err
}

// Create implements payroll.PayrollRepository. The payrolls table carries
// UNIQUE (employee_id, month, year); losing that race surfaces as
// ErrPeriodAlreadyProcessed.
func (r *payrollRepository) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, employee_id, month, year, base_salary, bonuses, overtime,
			deductions, tax, net_salary, days_worked, days_absent
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.Month,
		record.Year,
		record.BaseSalary,
		record.Bonuses,
		record.Overtime,
		record.Deductions,
		record.Tax,
		record.NetSalary,
		record.DaysWorked,
		record.DaysAbsent,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "payrolls_employee_id_month_year_key") {
			return payroll.Record{}, payroll.ErrPeriodAlreadyProcessed
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `, e.full_name AS employee_name
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return p, nil
}

// GetByPeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByPeriod(ctx context.Context, employeeID string, month, year int) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls p
		WHERE p.employee_id = $1 AND p.month = $2 AND p.year = $3
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record for period: %w", err)
	}
	return p, nil
}

// ListByEmployee implements payroll.PayrollRepository.
func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string, filter payroll.ListFilter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE p.employee_id = $1"
	args := []any{employeeID}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		where += fmt.Sprintf(" AND p.year = $%d", len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(1) FROM payrolls p "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 12
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := fmt.Sprintf(`
		SELECT `+payrollColumns+`
		FROM payrolls p
		%s
		ORDER BY p.year DESC, p.month DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.Record, 0)
	for rows.Next() {
		var p payroll.Record
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BaseSalary, &p.Bonuses, &p.Overtime,
			&p.Deductions, &p.Tax, &p.NetSalary, &p.DaysWorked, &p.DaysAbsent,
			&p.PayslipURL, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, p)
	}

	return records, total, nil
}

// MarkPaid implements payroll.PayrollRepository. The paid_at IS NULL guard
// keeps a paid record immutable under concurrent pay calls.
func (r *payrollRepository) MarkPaid(ctx context.Context, id string, payslipURL *string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET paid_at = $1,
		    payslip_url = COALESCE($2, payslip_url),
		    updated_at = NOW()
		WHERE id = $3 AND paid_at IS NULL
	`

	tag, err := q.Exec(ctx, query, paidAt, payslipURL, id)
	if err != nil {
		return fmt.Errorf("failed to mark payroll record paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRecordAlreadyPaid
	}
	return nil
}
