package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/attendance"
	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/employee"
	"github.com/workforcehq/records-backend-go/internal/domain/payroll"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/pkg/crypto"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmployeeID = "0198c5b4-0000-7000-8000-000000000010"

type fakePayrollRepository struct {
	records map[string]payroll.Record
	nextID  int
}

func (f *fakePayrollRepository) Create(_ context.Context, record payroll.Record) (payroll.Record, error) {
	for _, existing := range f.records {
		if existing.EmployeeID == record.EmployeeID && existing.Month == record.Month && existing.Year == record.Year {
			return payroll.Record{}, payroll.ErrPeriodAlreadyProcessed
		}
	}
	f.nextID++
	record.ID = fmt.Sprintf("payroll-%d", f.nextID)
	record.CreatedAt = time.Now()
	f.records[record.ID] = record
	return record, nil
}

func (f *fakePayrollRepository) GetByID(_ context.Context, id string) (payroll.Record, error) {
	record, ok := f.records[id]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakePayrollRepository) GetByPeriod(_ context.Context, employeeID string, month, year int) (payroll.Record, error) {
	for _, record := range f.records {
		if record.EmployeeID == employeeID && record.Month == month && record.Year == year {
			return record, nil
		}
	}
	return payroll.Record{}, payroll.ErrRecordNotFound
}

func (f *fakePayrollRepository) ListByEmployee(_ context.Context, employeeID string, _ payroll.ListFilter) ([]payroll.Record, int64, error) {
	var out []payroll.Record
	for _, record := range f.records {
		if record.EmployeeID == employeeID {
			out = append(out, record)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepository) MarkPaid(_ context.Context, id string, payslipURL *string, paidAt time.Time) error {
	record, ok := f.records[id]
	if !ok {
		return payroll.ErrRecordNotFound
	}
	if record.PaidAt != nil {
		return payroll.ErrRecordAlreadyPaid
	}
	record.PaidAt = &paidAt
	record.PayslipURL = payslipURL
	f.records[id] = record
	return nil
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

func (f *fakeEmployeeRepository) SetBiometricToken(_ context.Context, _ string, _ string) error {
	return nil
}

type fakeAttendanceRepository struct {
	records []attendance.Attendance
}

func (f *fakeAttendanceRepository) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}

func (f *fakeAttendanceRepository) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepository) SetClockOut(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (f *fakeAttendanceRepository) ListByEmployee(_ context.Context, _ string, _ attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

func (f *fakeAttendanceRepository) ListByPeriod(_ context.Context, _ string, _, _ time.Time) ([]attendance.Attendance, error) {
	return f.records, nil
}

func (f *fakeAttendanceRepository) StatsForDate(_ context.Context, _ time.Time) (attendance.Stats, error) {
	return attendance.Stats{}, nil
}

type fakeFileStorage struct {
	uploads map[string]string
	fail    bool
}

func (f *fakeFileStorage) Upload(_ context.Context, file io.Reader, path string, _ string) (string, error) {
	if f.fail {
		return "", errors.New("storage unavailable")
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	f.uploads[path] = string(content)
	return "http://localhost:8080/uploads/" + path, nil
}

func (f *fakeFileStorage) Delete(_ context.Context, _ string) error {
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

type payrollFixture struct {
	svc         payroll.PayrollService
	payrollRepo *fakePayrollRepository
	storage     *fakeFileStorage
	auditRepo   *fakeAuditRepo
	cipher      *crypto.FieldCipher
}

func newFixture(t *testing.T, salary string, attendanceRecords []attendance.Attendance) *payrollFixture {
	t.Helper()

	cipher, err := crypto.NewEphemeral()
	require.NoError(t, err)

	var salaryToken *string
	if salary != "" {
		token, err := cipher.Encrypt(salary)
		require.NoError(t, err)
		salaryToken = &token
	}

	payrollRepo := &fakePayrollRepository{records: map[string]payroll.Record{}}
	employeeRepo := &fakeEmployeeRepository{employees: map[string]employee.Employee{
		testEmployeeID: {ID: testEmployeeID, FullName: "Jane Roe", SalaryToken: salaryToken},
	}}
	fileStorage := &fakeFileStorage{}
	auditRepo := &fakeAuditRepo{}

	svc := NewPayrollService(
		payrollRepo,
		employeeRepo,
		&fakeAttendanceRepository{records: attendanceRecords},
		cipher,
		fileStorage,
		"0.5",
		auditservice.NewRecorder(auditRepo),
	)

	return &payrollFixture{
		svc:         svc,
		payrollRepo: payrollRepo,
		storage:     fileStorage,
		auditRepo:   auditRepo,
		cipher:      cipher,
	}
}

func adminContext() context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{
		UserID: "0198c5b4-0000-7000-8000-000000000001",
		Email:  "admin@example.com",
		Role:   user.RoleAdmin,
	})
}

func TestRunComputesNetFromDecryptedSalary(t *testing.T) {
	f := newFixture(t, "5000.00", []attendance.Attendance{
		{Status: attendance.StatusPresent},
		{Status: attendance.StatusLate},
		{Status: attendance.StatusHalfDay},
		{Status: attendance.StatusAbsent},
	})

	resp, err := f.svc.Run(adminContext(), payroll.RunRequest{
		EmployeeID: testEmployeeID,
		Month:      7,
		Year:       2026,
		Bonuses:    "250.00",
		Overtime:   "100.555",
		Deductions: "50.00",
		Tax:        "525.00",
	})

	require.NoError(t, err)
	assert.Equal(t, "5000.00", resp.BaseSalary)
	// 5000 + 250 + 100.555 - 50 - 525, rounded once at the end
	assert.Equal(t, "4775.56", resp.NetSalary)
	assert.Equal(t, "2.50", resp.DaysWorked)
	assert.Equal(t, "1.00", resp.DaysAbsent)
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Jane Roe", *resp.EmployeeName)
	assert.Nil(t, resp.PaidAt)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, audit.ActionPayrollRun, f.auditRepo.entries[0].Action)
}

func TestRunTwiceForSamePeriod(t *testing.T) {
	f := newFixture(t, "5000.00", nil)

	req := payroll.RunRequest{EmployeeID: testEmployeeID, Month: 7, Year: 2026}
	_, err := f.svc.Run(adminContext(), req)
	require.NoError(t, err)

	_, err = f.svc.Run(adminContext(), req)
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyProcessed)
}

func TestRunRejectsFuturePeriod(t *testing.T) {
	f := newFixture(t, "5000.00", nil)

	future := time.Now().AddDate(1, 0, 0)
	_, err := f.svc.Run(adminContext(), payroll.RunRequest{
		EmployeeID: testEmployeeID,
		Month:      int(future.Month()),
		Year:       future.Year(),
	})

	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}

func TestRunRequiresStoredSalary(t *testing.T) {
	f := newFixture(t, "", nil)

	_, err := f.svc.Run(adminContext(), payroll.RunRequest{
		EmployeeID: testEmployeeID,
		Month:      7,
		Year:       2026,
	})

	assert.ErrorIs(t, err, payroll.ErrSalaryNotSet)
}

func TestRunSurfacesTamperedSalaryToken(t *testing.T) {
	// token sealed under a different key fails authentication, it never
	// decrypts to garbage
	other, err := crypto.NewEphemeral()
	require.NoError(t, err)
	foreign, err := other.Encrypt("5000.00")
	require.NoError(t, err)

	cipher, err := crypto.NewEphemeral()
	require.NoError(t, err)

	svc := NewPayrollService(
		&fakePayrollRepository{records: map[string]payroll.Record{}},
		&fakeEmployeeRepository{employees: map[string]employee.Employee{
			testEmployeeID: {ID: testEmployeeID, FullName: "Jane Roe", SalaryToken: &foreign},
		}},
		&fakeAttendanceRepository{},
		cipher,
		&fakeFileStorage{},
		"0.5",
		auditservice.NewRecorder(&fakeAuditRepo{}),
	)

	_, err = svc.Run(adminContext(), payroll.RunRequest{
		EmployeeID: testEmployeeID,
		Month:      7,
		Year:       2026,
	})

	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
}

func TestMarkPaidStoresPayslip(t *testing.T) {
	f := newFixture(t, "5000.00", nil)

	created, err := f.svc.Run(adminContext(), payroll.RunRequest{
		EmployeeID: testEmployeeID,
		Month:      7,
		Year:       2026,
	})
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(adminContext(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.PayslipURL)
	assert.Contains(t, *paid.PayslipURL, "payslips/"+testEmployeeID+"/2026-07.txt")

	slip := f.storage.uploads["payslips/"+testEmployeeID+"/2026-07.txt"]
	assert.Contains(t, slip, "PAYSLIP 2026-07")
	assert.Contains(t, slip, "Net:        5000.00")

	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, audit.ActionPayrollPay, f.auditRepo.entries[1].Action)
}

func TestMarkPaidTwice(t *testing.T) {
	f := newFixture(t, "5000.00", nil)

	created, err := f.svc.Run(adminContext(), payroll.RunRequest{
		EmployeeID: testEmployeeID,
		Month:      7,
		Year:       2026,
	})
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(adminContext(), created.ID)
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(adminContext(), created.ID)
	assert.ErrorIs(t, err, payroll.ErrRecordAlreadyPaid)
}

func TestMarkPaidSurvivesStorageFailure(t *testing.T) {
	f := newFixture(t, "5000.00", nil)
	f.storage.fail = true

	created, err := f.svc.Run(adminContext(), payroll.RunRequest{
		EmployeeID: testEmployeeID,
		Month:      7,
		Year:       2026,
	})
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(adminContext(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	assert.Nil(t, paid.PayslipURL)
}
