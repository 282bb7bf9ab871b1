// Package attendance implements clock-in/clock-out tracking. Same-day
// uniqueness is enforced by the store, not checked here, so two concurrent
// clock-ins cannot both succeed.
package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/attendance"
	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/employee"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type attendanceService struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	recorder       *auditservice.Recorder
	workStart      time.Duration
	now            func() time.Time
}

// NewAttendanceService builds the tracker. workStart is the lateness cutoff
// as "HH:MM"; an unparseable value falls back to 09:00.
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	workStart string,
	recorder *auditservice.Recorder,
) attendance.AttendanceService {
	cutoff, err := time.Parse("15:04", workStart)
	if err != nil {
		slog.Warn("invalid WORK_START_TIME, using 09:00", "value", workStart)
		cutoff, _ = time.Parse("15:04", "09:00")
	}
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		recorder:       recorder,
		workStart:      time.Duration(cutoff.Hour())*time.Hour + time.Duration(cutoff.Minute())*time.Minute,
		now:            time.Now,
	}
}

// ClockIn implements attendance.AttendanceService.
func (s *attendanceService) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if p.EmployeeID == nil {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	if req.ViaBiometric {
		e, err := s.employeeRepo.GetByID(ctx, *p.EmployeeID)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		// biometric clock-in requires an enrolled descriptor
		if e.BiometricToken == nil {
			return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
		}
	}

	now := s.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// arriving exactly at the cutoff is late
	isLate := !now.Before(date.Add(s.workStart))

	status := attendance.StatusPresent
	if isLate {
		status = attendance.StatusLate
	}

	created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
		EmployeeID:    *p.EmployeeID,
		Date:          date,
		ClockIn:       &now,
		Status:        status,
		IsLate:        isLate,
		Location:      req.Location,
		BiometricUsed: req.ViaBiometric,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionClockIn, "attendance", created.ID,
		nil, attendance.ToResponse(created), chimiddleware.GetReqID(ctx), "")

	return attendance.ToResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *attendanceService) ClockOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if p.EmployeeID == nil {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	now := s.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	att, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, *p.EmployeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
		}
		return attendance.AttendanceResponse{}, err
	}
	if att.ClockOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}

	if err := s.attendanceRepo.SetClockOut(ctx, att.ID, now); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	before := attendance.ToResponse(att)
	att.ClockOut = &now

	s.recorder.Record(ctx, &p.UserID, audit.ActionClockOut, "attendance", att.ID,
		before, attendance.ToResponse(att), chimiddleware.GetReqID(ctx), "")

	return attendance.ToResponse(att), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *attendanceService) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) ([]attendance.AttendanceResponse, int64, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	if p.EmployeeID == nil {
		return nil, 0, attendance.ErrUnauthorized
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	records, total, err := s.attendanceRepo.ListByEmployee(ctx, *p.EmployeeID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec))
	}
	return responses, total, nil
}

// StatsForDate implements attendance.AttendanceService.
func (s *attendanceService) StatsForDate(ctx context.Context, date time.Time) (attendance.StatsResponse, error) {
	stats, err := s.attendanceRepo.StatsForDate(ctx, date)
	if err != nil {
		return attendance.StatsResponse{}, err
	}
	return attendance.ToStatsResponse(stats), nil
}
