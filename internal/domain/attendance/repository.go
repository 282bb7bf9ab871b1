package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// Create must surface the (employee_id, date) unique constraint as
// ErrAlreadyClockedIn: two concurrent clock-ins for the same pair resolve
// to exactly one success at the store, not by an application-level check.
type AttendanceRepository interface {
	// Create inserts a new record; ErrAlreadyClockedIn on a duplicate day.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for one employee-day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// SetClockOut sets the clock-out instant; the status is not recomputed.
	SetClockOut(ctx context.Context, id string, clockOut time.Time) error

	// ListByEmployee retrieves an employee's records within a date range.
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// ListByPeriod retrieves all of an employee's records inside [from, to],
	// used by payroll to derive days worked and days absent.
	ListByPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// StatsForDate counts present-equivalent vs total records for a date.
	StatsForDate(ctx context.Context, date time.Time) (Stats, error)
}
