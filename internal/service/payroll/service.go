// Package payroll turns an employee's encrypted base salary and a month of
// attendance into an immutable payroll record. All money math is exact
// decimal arithmetic, rounded once on the final net amount.
package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/attendance"
	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/employee"
	"github.com/workforcehq/records-backend-go/internal/domain/payroll"
	"github.com/workforcehq/records-backend-go/internal/pkg/crypto"
	"github.com/workforcehq/records-backend-go/internal/pkg/storage"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

type payrollService struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	cipher         *crypto.FieldCipher
	fileStorage    storage.FileStorage
	recorder       *auditservice.Recorder
	halfDayWeight  decimal.Decimal
}

// NewPayrollService builds the calculator. halfDayWeight is how much of a
// worked day a half_day attendance counts as; an unparseable value falls
// back to 0.5.
func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	cipher *crypto.FieldCipher,
	fileStorage storage.FileStorage,
	halfDayWeight string,
	recorder *auditservice.Recorder,
) payroll.PayrollService {
	weight, err := decimal.NewFromString(halfDayWeight)
	if err != nil {
		slog.Warn("invalid HALF_DAY_WEIGHT, using 0.5", "value", halfDayWeight)
		weight = decimal.NewFromFloat(0.5)
	}
	return &payrollService{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		cipher:         cipher,
		fileStorage:    fileStorage,
		recorder:       recorder,
		halfDayWeight:  weight,
	}
}

// Run implements payroll.PayrollService. The period existence check is the
// insert itself: the store's uniqueness on (employee, month, year) decides
// the race, so a re-run can never produce a second record.
func (s *payrollService) Run(ctx context.Context, req payroll.RunRequest) (payroll.RecordResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	periodStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	if periodStart.After(time.Now()) {
		return payroll.RecordResponse{}, payroll.ErrInvalidPeriod
	}
	periodEnd := periodStart.AddDate(0, 1, -1)

	e, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if e.SalaryToken == nil {
		return payroll.RecordResponse{}, payroll.ErrSalaryNotSet
	}

	plaintext, err := s.cipher.Decrypt(*e.SalaryToken)
	if err != nil {
		return payroll.RecordResponse{}, fmt.Errorf("salary token for employee %s: %w", e.ID, err)
	}
	baseSalary, err := decimal.NewFromString(plaintext)
	if err != nil {
		return payroll.RecordResponse{}, fmt.Errorf("stored salary for employee %s is not a decimal: %w", e.ID, err)
	}

	records, err := s.attendanceRepo.ListByPeriod(ctx, req.EmployeeID, periodStart, periodEnd)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	counts := payroll.CountDays(records, s.halfDayWeight)

	bonuses := req.Amount(req.Bonuses)
	overtime := req.Amount(req.Overtime)
	deductions := req.Amount(req.Deductions)
	tax := req.Amount(req.Tax)

	created, err := s.payrollRepo.Create(ctx, payroll.Record{
		EmployeeID: req.EmployeeID,
		Month:      req.Month,
		Year:       req.Year,
		BaseSalary: baseSalary,
		Bonuses:    bonuses,
		Overtime:   overtime,
		Deductions: deductions,
		Tax:        tax,
		NetSalary:  payroll.ComputeNet(baseSalary, bonuses, overtime, deductions, tax),
		DaysWorked: counts.Worked,
		DaysAbsent: counts.Absent,
	})
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	created.EmployeeName = &e.FullName

	s.recorder.Record(ctx, &p.UserID, audit.ActionPayrollRun, "payroll", created.ID,
		nil, payroll.ToResponse(created), chimiddleware.GetReqID(ctx), "")

	return payroll.ToResponse(created), nil
}

// GetCurrent implements payroll.PayrollService.
func (s *payrollService) GetCurrent(ctx context.Context) (payroll.RecordResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if p.EmployeeID == nil {
		return payroll.RecordResponse{}, payroll.ErrRecordNotFound
	}

	now := time.Now()
	record, err := s.payrollRepo.GetByPeriod(ctx, *p.EmployeeID, int(now.Month()), now.Year())
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return payroll.ToResponse(record), nil
}

// ListMine implements payroll.PayrollService.
func (s *payrollService) ListMine(ctx context.Context, filter payroll.ListFilter) ([]payroll.RecordResponse, int64, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	if p.EmployeeID == nil {
		return nil, 0, payroll.ErrRecordNotFound
	}

	records, total, err := s.payrollRepo.ListByEmployee(ctx, *p.EmployeeID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, payroll.ToResponse(record))
	}
	return responses, total, nil
}

// MarkPaid implements payroll.PayrollService. The payslip is rendered and
// stored best-effort; a storage failure does not block the payment mark.
func (s *payrollService) MarkPaid(ctx context.Context, recordID string) (payroll.RecordResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	before, err := s.payrollRepo.GetByID(ctx, recordID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if before.PaidAt != nil {
		return payroll.RecordResponse{}, payroll.ErrRecordAlreadyPaid
	}

	now := time.Now()

	var payslipURL *string
	if url, err := s.uploadPayslip(ctx, before, now); err != nil {
		slog.Warn("failed to store payslip", "payroll_id", recordID, "error", err)
	} else {
		payslipURL = &url
	}

	if err := s.payrollRepo.MarkPaid(ctx, recordID, payslipURL, now); err != nil {
		return payroll.RecordResponse{}, err
	}

	after, err := s.payrollRepo.GetByID(ctx, recordID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionPayrollPay, "payroll", recordID,
		payroll.ToResponse(before), payroll.ToResponse(after), chimiddleware.GetReqID(ctx), "")

	return payroll.ToResponse(after), nil
}

func (s *payrollService) uploadPayslip(ctx context.Context, record payroll.Record, paidAt time.Time) (string, error) {
	name := ""
	if record.EmployeeName != nil {
		name = *record.EmployeeName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PAYSLIP %04d-%02d\n", record.Year, record.Month)
	fmt.Fprintf(&b, "Employee:   %s (%s)\n", name, record.EmployeeID)
	fmt.Fprintf(&b, "Base:       %s\n", record.BaseSalary.StringFixed(2))
	fmt.Fprintf(&b, "Bonuses:    %s\n", record.Bonuses.StringFixed(2))
	fmt.Fprintf(&b, "Overtime:   %s\n", record.Overtime.StringFixed(2))
	fmt.Fprintf(&b, "Deductions: %s\n", record.Deductions.StringFixed(2))
	fmt.Fprintf(&b, "Tax:        %s\n", record.Tax.StringFixed(2))
	fmt.Fprintf(&b, "Net:        %s\n", record.NetSalary.StringFixed(2))
	fmt.Fprintf(&b, "Paid at:    %s\n", paidAt.Format(time.RFC3339))

	path := fmt.Sprintf("payslips/%s/%04d-%02d.txt", record.EmployeeID, record.Year, record.Month)
	return s.fileStorage.Upload(ctx, strings.NewReader(b.String()), path, "text/plain")
}
