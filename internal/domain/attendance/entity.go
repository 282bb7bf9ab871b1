package attendance

import (
	"time"
)

// Attendance is one employee-day record. The (EmployeeID, Date) pair is
// unique; the record is created on clock-in and mutated once on clock-out.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	ClockIn       *time.Time
	ClockOut      *time.Time
	Status        Status
	IsLate        bool
	Location      *string
	BiometricUsed bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusOnLeave Status = "on_leave"
	StatusHalfDay Status = "half_day"
)

// Stats is the per-date aggregate used for the dashboard attendance rate.
// Records with no status are excluded from both counts.
type Stats struct {
	Date    time.Time
	Present int64
	Total   int64
}
