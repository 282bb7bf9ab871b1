package payroll

import "errors"

var (
	ErrRecordNotFound         = errors.New("payroll record not found")
	ErrPeriodAlreadyProcessed = errors.New("payroll already processed for this period")
	ErrRecordAlreadyPaid      = errors.New("payroll record has already been paid")
	ErrInvalidPeriod          = errors.New("invalid payroll period")
	ErrSalaryNotSet           = errors.New("employee has no salary on record")
)
