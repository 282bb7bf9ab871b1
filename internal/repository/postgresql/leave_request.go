package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/workforcehq/records-backend-go/internal/domain/leave"
	"github.com/workforcehq/records-backend-go/internal/pkg/database"

	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.days,
	lr.reason, lr.status, lr.approver_id, lr.approver_comments, lr.approved_at,
	lr.created_at, lr.updated_at
`

func scanLeaveRequest(row pgx.Row, withEmployee bool) (leave.Request, error) {
	var lr leave.Request
	dest := []any{
		&lr.ID, &lr.EmployeeID, &lr.LeaveType, &lr.StartDate, &lr.EndDate, &lr.Days,
		&lr.Reason, &lr.Status, &lr.ApproverID, &lr.ApproverComments, &lr.ApprovedAt,
		&lr.CreatedAt, &lr.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &lr.EmployeeName)
	}
	err := row.Scan(dest...)
	return lr, err
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, days, reason, status
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.LeaveType,
		req.StartDate,
		req.EndDate,
		req.Days,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, e.full_name AS employee_name
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// UpdateStatus implements leave.RequestRepository. The pending guard in the
// WHERE clause makes concurrent decisions race-safe: the second transition
// matches zero rows and gets ErrNotPending.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, req leave.DecisionUpdate) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
		    approver_id = $2,
		    approver_comments = $3,
		    approved_at = $4,
		    updated_at = NOW()
		WHERE id = $5 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, req.Status, req.ApproverID, req.Comments, req.DecidedAt, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrNotPending
	}
	return nil
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	where := "WHERE lr.employee_id = $1"
	args := []any{employeeID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND lr.status = $%d", len(args))
	}
	return r.list(ctx, where, args, filter)
}

// ListPending implements leave.RequestRepository.
func (r *leaveRequestRepository) ListPending(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	return r.list(ctx, "WHERE lr.status = 'pending'", nil, filter)
}

func (r *leaveRequestRepository) list(ctx context.Context, where string, args []any, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := "SELECT COUNT(1) FROM leave_requests lr " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
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
		SELECT `+leaveRequestColumns+`, e.full_name AS employee_name
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		%s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		var lr leave.Request
		if err := rows.Scan(
			&lr.ID, &lr.EmployeeID, &lr.LeaveType, &lr.StartDate, &lr.EndDate, &lr.Days,
			&lr.Reason, &lr.Status, &lr.ApproverID, &lr.ApproverComments, &lr.ApprovedAt,
			&lr.CreatedAt, &lr.UpdatedAt,
			&lr.EmployeeName,
		); err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}

	return requests, total, nil
}
