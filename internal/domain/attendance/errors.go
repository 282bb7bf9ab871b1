package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrNotClockedIn      = errors.New("no clock-in recorded for today")
	ErrAlreadyClockedOut = errors.New("already clocked out today")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
