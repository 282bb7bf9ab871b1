package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/attendance"
	"github.com/workforcehq/records-backend-go/internal/pkg/database"

	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date, clock_in, clock_out, status, is_late,
	location, biometric_used, created_at, updated_at
`

// Create implements attendance.AttendanceRepository. The attendances table
// carries UNIQUE (employee_id, date); a duplicate insert loses the race at
// the store and surfaces as ErrAlreadyClockedIn.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, date, clock_in, status, is_late, location, biometric_used
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID,
		att.Date,
		att.ClockIn,
		att.Status,
		att.IsLate,
		att.Location,
		att.BiometricUsed,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "attendances_employee_id_date_key") {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut, &att.Status, &att.IsLate,
		&att.Location, &att.BiometricUsed, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

// SetClockOut implements attendance.AttendanceRepository. The WHERE clause
// requires clock_out IS NULL so a concurrent double clock-out cannot
// overwrite the first instant.
func (a *attendanceRepository) SetClockOut(ctx context.Context, id string, clockOut time.Time) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_out = $1, updated_at = NOW()
		WHERE id = $2 AND clock_out IS NULL
	`

	tag, err := q.Exec(ctx, query, clockOut, id)
	if err != nil {
		return fmt.Errorf("failed to set clock out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyClockedOut
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where := "WHERE employee_id = $1"
	args := []any{employeeID}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(1) FROM attendances "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 31
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := fmt.Sprintf(`
		SELECT `+attendanceColumns+`
		FROM attendances
		%s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut, &att.Status, &att.IsLate,
			&att.Location, &att.BiometricUsed, &att.CreatedAt, &att.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, att)
	}

	return records, total, nil
}

// ListByPeriod implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances for period: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut, &att.Status, &att.IsLate,
			&att.Location, &att.BiometricUsed, &att.CreatedAt, &att.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, att)
	}

	return records, nil
}

// StatsForDate implements attendance.AttendanceRepository. Records whose
// status is empty are excluded from both counts rather than treated as
// absent.
func (a *attendanceRepository) StatsForDate(ctx context.Context, date time.Time) (attendance.Stats, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT
			COUNT(1) FILTER (WHERE status IN ('present', 'late', 'half_day')),
			COUNT(1)
		FROM attendances
		WHERE date = $1 AND status <> ''
	`

	stats := attendance.Stats{Date: date}
	if err := q.QueryRow(ctx, query, date).Scan(&stats.Present, &stats.Total); err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to get attendance stats: %w", err)
	}

	return stats, nil
}
