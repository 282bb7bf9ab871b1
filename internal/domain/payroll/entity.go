package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one employee's payroll for a (month, year) period. The triple
// (EmployeeID, Month, Year) is unique; a record is immutable once paid.
type Record struct {
	ID         string
	EmployeeID string
	Month      int
	Year       int
	BaseSalary decimal.Decimal
	Bonuses    decimal.Decimal
	Overtime   decimal.Decimal
	Deductions decimal.Decimal
	Tax        decimal.Decimal
	NetSalary  decimal.Decimal
	DaysWorked decimal.Decimal
	DaysAbsent decimal.Decimal
	PayslipURL *string
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
}
