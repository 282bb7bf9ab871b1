package attendance

import (
	"time"

	"github.com/workforcehq/records-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	Location     *string `json:"location,omitempty"`
	ViaBiometric bool    `json:"via_biometric"`
}

type MyAttendanceFilter struct {
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	Date          string  `json:"date"`
	ClockIn       *string `json:"clock_in,omitempty"`
	ClockOut      *string `json:"clock_out,omitempty"`
	Status        string  `json:"status"`
	IsLate        bool    `json:"is_late"`
	Location      *string `json:"location,omitempty"`
	BiometricUsed bool    `json:"biometric_used"`
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		Date:          a.Date.Format("2006-01-02"),
		Status:        string(a.Status),
		IsLate:        a.IsLate,
		Location:      a.Location,
		BiometricUsed: a.BiometricUsed,
	}
	if a.ClockIn != nil {
		s := a.ClockIn.Format(time.RFC3339)
		resp.ClockIn = &s
	}
	if a.ClockOut != nil {
		s := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &s
	}
	return resp
}

type StatsResponse struct {
	Date           string  `json:"date"`
	Present        int64   `json:"present"`
	Total          int64   `json:"total"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func ToStatsResponse(s Stats) StatsResponse {
	resp := StatsResponse{
		Date:    s.Date.Format("2006-01-02"),
		Present: s.Present,
		Total:   s.Total,
	}
	if s.Total > 0 {
		resp.AttendanceRate = float64(s.Present) / float64(s.Total)
	}
	return resp
}
