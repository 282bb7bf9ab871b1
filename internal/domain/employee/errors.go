package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrProfileExists        = errors.New("identity already has an employee profile")
	ErrInvalidStatus        = errors.New("status must be active, inactive or terminated")
	ErrManagerNotFound      = errors.New("manager profile not found")
	ErrFutureDateNotAllowed = errors.New("date cannot be in the future")
	ErrUnauthorized         = errors.New("unauthorized to access this employee")
)
