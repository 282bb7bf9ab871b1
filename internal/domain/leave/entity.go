package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypeUnpaid    Type = "unpaid"
	TypeMaternity Type = "maternity"
)

func IsValidType(t string) bool {
	switch Type(t) {
	case TypeAnnual, TypeSick, TypeUnpaid, TypeMaternity:
		return true
	}
	return false
}

// Balance is the per (employee, type, year) ledger of allotted vs consumed
// days. RemainingDays == TotalDays - UsedDays holds after every successful
// mutation; day counts are decimals with 2-place precision.
type Balance struct {
	ID            string
	EmployeeID    string
	LeaveType     Type
	Year          int
	TotalDays     decimal.Decimal
	UsedDays      decimal.Decimal
	RemainingDays decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Request is a leave request. It is created in pending and transitions to
// exactly one terminal status; only approval touches the balance.
type Request struct {
	ID         string
	EmployeeID string
	LeaveType  Type
	StartDate  time.Time
	EndDate    time.Time
	// Days is the inclusive day count between StartDate and EndDate.
	Days             decimal.Decimal
	Reason           string
	Status           RequestStatus
	ApproverID       *string
	ApproverComments *string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName *string
}
