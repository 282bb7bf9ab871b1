package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/workforcehq/records-backend-go/internal/domain/attendance"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/employee"
	"github.com/workforcehq/records-backend-go/internal/domain/leave"
	"github.com/workforcehq/records-backend-go/internal/domain/payroll"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/pkg/crypto"
	"github.com/workforcehq/records-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrForbidden):
		Forbidden(w, "Role not permitted for this operation")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrProfileExists):
		Conflict(w, "Identity already has an employee profile")
	case errors.Is(err, employee.ErrManagerNotFound):
		BadRequest(w, "Manager profile not found", nil)
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this employee")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "Not clocked in today")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out today")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "No employee profile linked to this identity")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInvalidRange):
		BadRequest(w, "End date is before start date", nil)
	case errors.Is(err, leave.ErrReasonTooShort):
		BadRequest(w, "Reason is too short", nil)
	case errors.Is(err, leave.ErrInvalidLeaveType):
		BadRequest(w, "Invalid leave type", nil)
	case errors.Is(err, leave.ErrNotPending):
		Conflict(w, "Leave request already decided")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrUnauthorized):
		Forbidden(w, "Not allowed to decide this leave request")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPeriodAlreadyProcessed):
		Conflict(w, "Payroll already processed for this period")
	case errors.Is(err, payroll.ErrRecordAlreadyPaid):
		Conflict(w, "Payroll record already paid")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrSalaryNotSet):
		BadRequest(w, "Employee has no salary on record", nil)

	// A failed field-token authentication means stored data was tampered
	// with or the key changed. It must surface loudly, never as a 4xx.
	case errors.Is(err, crypto.ErrAuthenticationFailed), errors.Is(err, crypto.ErrMalformedToken):
		slog.Error("field token integrity failure", "error", err)
		InternalServerError(w, "Record integrity check failed")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
