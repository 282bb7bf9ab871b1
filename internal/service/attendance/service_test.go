package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/attendance"
	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/employee"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/pkg/validator"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepository struct {
	records map[string]attendance.Attendance
	stats   attendance.Stats
}

func (f *fakeAttendanceRepository) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	key := att.EmployeeID + att.Date.Format("2006-01-02")
	if _, exists := f.records[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	}
	att.ID = "att-1"
	f.records[key] = att
	return att, nil
}

func (f *fakeAttendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	att, ok := f.records[employeeID+date.Format("2006-01-02")]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (f *fakeAttendanceRepository) SetClockOut(_ context.Context, id string, clockOut time.Time) error {
	for key, att := range f.records {
		if att.ID == id {
			att.ClockOut = &clockOut
			f.records[key] = att
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepository) ListByEmployee(_ context.Context, employeeID string, _ attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.EmployeeID == employeeID {
			out = append(out, att)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepository) ListByPeriod(_ context.Context, employeeID string, _, _ time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.EmployeeID == employeeID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepository) StatsForDate(_ context.Context, _ time.Time) (attendance.Stats, error) {
	return f.stats, nil
}

type fakeEmployeeRepository struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepository) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepository) Update(_ context.Context, _ string, _ employee.UpdateEmployeeRequest) error {
	return nil
}

func (f *fakeEmployeeRepository) List(_ context.Context, _ employee.ListFilter) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

func (f *fakeEmployeeRepository) SetResumeURL(_ context.Context, _ string, _ string) error {
	return nil
}

func (f *fakeEmployeeRepository) SetBiometricToken(_ context.Context, id string, token string) error {
	e, ok := f.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.BiometricToken = &token
	f.employees[id] = e
	return nil
}

type fakeAuditRepo struct {
	entries []audit.Entry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ audit.Filter) ([]audit.Entry, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

const testEmployeeID = "0198c5b4-0000-7000-8000-000000000010"

func newTestService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository) (*attendanceService, *fakeAuditRepo) {
	auditRepo := &fakeAuditRepo{}
	svc := NewAttendanceService(attendanceRepo, employeeRepo, "09:00", auditservice.NewRecorder(auditRepo)).(*attendanceService)
	return svc, auditRepo
}

func employeeContext() context.Context {
	employeeID := testEmployeeID
	return auth.WithPrincipal(context.Background(), auth.Principal{
		UserID:     "0198c5b4-0000-7000-8000-000000000001",
		Email:      "jane@example.com",
		EmployeeID: &employeeID,
		Role:       user.RoleEmployee,
	})
}

func TestClockInCreatesRecord(t *testing.T) {
	repo := &fakeAttendanceRepository{records: map[string]attendance.Attendance{}}
	svc, auditRepo := newTestService(repo, &fakeEmployeeRepository{})

	location := "HQ lobby"
	resp, err := svc.ClockIn(employeeContext(), attendance.ClockInRequest{Location: &location})

	require.NoError(t, err)
	assert.Equal(t, testEmployeeID, resp.EmployeeID)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.Date)
	require.NotNil(t, resp.ClockIn)
	require.NotNil(t, resp.Location)
	assert.Equal(t, "HQ lobby", *resp.Location)
	assert.False(t, resp.BiometricUsed)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionClockIn, auditRepo.entries[0].Action)
}

func TestClockInLatenessCutoff(t *testing.T) {
	cases := []struct {
		name     string
		clock    time.Time
		wantLate bool
		want     attendance.Status
	}{
		{"before cutoff", time.Date(2026, 8, 28, 8, 59, 59, 0, time.UTC), false, attendance.StatusPresent},
		{"exactly at cutoff", time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC), true, attendance.StatusLate},
		{"after cutoff", time.Date(2026, 8, 28, 9, 0, 1, 0, time.UTC), true, attendance.StatusLate},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo := &fakeAttendanceRepository{records: map[string]attendance.Attendance{}}
			svc, _ := newTestService(repo, &fakeEmployeeRepository{})
			svc.now = func() time.Time { return c.clock }

			resp, err := svc.ClockIn(employeeContext(), attendance.ClockInRequest{})

			require.NoError(t, err)
			assert.Equal(t, c.wantLate, resp.IsLate)
			assert.Equal(t, string(c.want), resp.Status)
		})
	}
}

func TestClockInTwiceSameDay(t *testing.T) {
	repo := &fakeAttendanceRepository{records: map[string]attendance.Attendance{}}
	svc, _ := newTestService(repo, &fakeEmployeeRepository{})

	_, err := svc.ClockIn(employeeContext(), attendance.ClockInRequest{})
	require.NoError(t, err)

	_, err = svc.ClockIn(employeeContext(), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockInRequiresEmployeeProfile(t *testing.T) {
	svc, _ := newTestService(&fakeAttendanceRepository{records: map[string]attendance.Attendance{}}, &fakeEmployeeRepository{})

	ctx := auth.WithPrincipal(context.Background(), auth.Principal{
		UserID: "0198c5b4-0000-7000-8000-000000000001",
		Role:   user.RoleAdmin,
	})
	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	_, err = svc.ClockIn(context.Background(), attendance.ClockInRequest{})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestBiometricClockInRequiresEnrollment(t *testing.T) {
	employeeRepo := &fakeEmployeeRepository{employees: map[string]employee.Employee{
		testEmployeeID: {ID: testEmployeeID, FullName: "Jane Roe"},
	}}
	svc, _ := newTestService(&fakeAttendanceRepository{records: map[string]attendance.Attendance{}}, employeeRepo)

	_, err := svc.ClockIn(employeeContext(), attendance.ClockInRequest{ViaBiometric: true})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	descriptor := "aa11:bb22:cc33"
	employeeRepo.employees[testEmployeeID] = employee.Employee{
		ID:             testEmployeeID,
		FullName:       "Jane Roe",
		BiometricToken: &descriptor,
	}

	resp, err := svc.ClockIn(employeeContext(), attendance.ClockInRequest{ViaBiometric: true})
	require.NoError(t, err)
	assert.True(t, resp.BiometricUsed)
}

func TestClockOutWithoutClockIn(t *testing.T) {
	svc, _ := newTestService(&fakeAttendanceRepository{records: map[string]attendance.Attendance{}}, &fakeEmployeeRepository{})

	_, err := svc.ClockOut(employeeContext())
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOutCompletesTheDay(t *testing.T) {
	repo := &fakeAttendanceRepository{records: map[string]attendance.Attendance{}}
	svc, auditRepo := newTestService(repo, &fakeEmployeeRepository{})

	_, err := svc.ClockIn(employeeContext(), attendance.ClockInRequest{})
	require.NoError(t, err)

	resp, err := svc.ClockOut(employeeContext())
	require.NoError(t, err)
	require.NotNil(t, resp.ClockOut)

	_, err = svc.ClockOut(employeeContext())
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)

	require.Len(t, auditRepo.entries, 2)
	assert.Equal(t, audit.ActionClockOut, auditRepo.entries[1].Action)
	assert.NotNil(t, auditRepo.entries[1].Before)
	assert.NotNil(t, auditRepo.entries[1].After)
}

func TestGetMyAttendanceValidatesFilter(t *testing.T) {
	svc, _ := newTestService(&fakeAttendanceRepository{records: map[string]attendance.Attendance{}}, &fakeEmployeeRepository{})

	bad := "07-09-2026"
	_, _, err := svc.GetMyAttendance(employeeContext(), attendance.MyAttendanceFilter{StartDate: &bad})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "start_date")
}

func TestStatsForDate(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	repo := &fakeAttendanceRepository{
		records: map[string]attendance.Attendance{},
		stats:   attendance.Stats{Date: date, Present: 3, Total: 4},
	}
	svc, _ := newTestService(repo, &fakeEmployeeRepository{})

	resp, err := svc.StatsForDate(context.Background(), date)

	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", resp.Date)
	assert.Equal(t, int64(3), resp.Present)
	assert.Equal(t, int64(4), resp.Total)
	assert.InDelta(t, 0.75, resp.AttendanceRate, 1e-9)
}
