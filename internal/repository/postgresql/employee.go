package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/workforcehq/records-backend-go/internal/domain/employee"
	"github.com/workforcehq/records-backend-go/internal/pkg/database"

	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.user_id, e.manager_id, e.full_name, e.phone_number, e.address, e.dob,
	e.position, e.department, e.hire_date, e.status, e.salary_token, e.biometric_token,
	e.resume_url, e.created_at, e.updated_at
`

func scanEmployee(row pgx.Row, withJoins bool) (employee.Employee, error) {
	var e employee.Employee
	dest := []any{
		&e.ID, &e.UserID, &e.ManagerID, &e.FullName, &e.PhoneNumber, &e.Address, &e.DOB,
		&e.Position, &e.Department, &e.HireDate, &e.Status, &e.SalaryToken, &e.BiometricToken,
		&e.ResumeURL, &e.CreatedAt, &e.UpdatedAt,
	}
	if withJoins {
		dest = append(dest, &e.Email, &e.ManagerName)
	}
	err := row.Scan(dest...)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `, u.email, m.full_name AS manager_name
		FROM employees e
		JOIN users u ON u.id = e.user_id
		LEFT JOIN employees m ON m.id = e.manager_id
		WHERE e.id = $1
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return e, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, user_id, manager_id, full_name, phone_number, address, dob,
			position, department, hire_date, status, salary_token, biometric_token
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newEmployee.UserID,
		newEmployee.ManagerID,
		newEmployee.FullName,
		newEmployee.PhoneNumber,
		newEmployee.Address,
		newEmployee.DOB,
		newEmployee.Position,
		newEmployee.Department,
		newEmployee.HireDate,
		newEmployee.Status,
		newEmployee.SalaryToken,
		newEmployee.BiometricToken,
	).Scan(&newEmployee.ID, &newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		// one profile per identity
		if isUniqueViolation(err, "employees_user_id_key") {
			return employee.Employee{}, employee.ErrProfileExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			manager_id   = COALESCE($2, manager_id),
			full_name    = COALESCE($3, full_name),
			phone_number = COALESCE($4, phone_number),
			address      = COALESCE($5, address),
			position     = COALESCE($6, position),
			department   = COALESCE($7, department),
			status       = COALESCE($8, status),
			salary_token = COALESCE($9, salary_token),
			updated_at   = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		id,
		req.ManagerID,
		req.FullName,
		req.PhoneNumber,
		req.Address,
		req.Position,
		req.Department,
		req.Status,
		req.SalaryToken,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ""
	args := []any{}
	if filter.Status != nil {
		where = "WHERE e.status = $1"
		args = append(args, *filter.Status)
	}

	var total int64
	countQuery := "SELECT COUNT(1) FROM employees e " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := fmt.Sprintf(`
		SELECT `+employeeColumns+`, u.email, m.full_name AS manager_name
		FROM employees e
		JOIN users u ON u.id = e.user_id
		LEFT JOIN employees m ON m.id = e.manager_id
		%s
		ORDER BY e.full_name
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ManagerID, &e.FullName, &e.PhoneNumber, &e.Address, &e.DOB,
			&e.Position, &e.Department, &e.HireDate, &e.Status, &e.SalaryToken, &e.BiometricToken,
			&e.ResumeURL, &e.CreatedAt, &e.UpdatedAt,
			&e.Email, &e.ManagerName,
		); err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}

	return employees, total, nil
}

// SetBiometricToken implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetBiometricToken(ctx context.Context, id string, token string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET biometric_token = $1, updated_at = NOW() WHERE id = $2`, token, id)
	if err != nil {
		return fmt.Errorf("failed to set biometric token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SetResumeURL implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetResumeURL(ctx context.Context, id string, url string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET resume_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("failed to set resume url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
