package leave

import "errors"

var (
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrInvalidRange        = errors.New("end date is before start date")
	ErrReasonTooShort      = errors.New("reason is too short")
	ErrInvalidLeaveType    = errors.New("invalid leave type")
	ErrNotPending          = errors.New("leave request has already been decided")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrUnauthorized        = errors.New("unauthorized to access this leave request")
)
