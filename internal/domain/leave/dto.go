package leave

import (
	"time"

	"github.com/workforcehq/records-backend-go/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

type CreateRequestRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !IsValidType(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be annual, sick, unpaid or maternity",
		})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Outcome string

const (
	OutcomeApproved  Outcome = "approved"
	OutcomeRejected  Outcome = "rejected"
	OutcomeCancelled Outcome = "cancelled"
)

type DecideRequest struct {
	Outcome  string  `json:"outcome"`
	Comments *string `json:"comments,omitempty"`
}

func (r *DecideRequest) Validate() error {
	switch Outcome(r.Outcome) {
	case OutcomeApproved, OutcomeRejected, OutcomeCancelled:
		return nil
	}
	return validator.ValidationErrors{{
		Field:   "outcome",
		Message: "outcome must be approved, rejected or cancelled",
	}}
}

// DecisionUpdate is the repository-level status transition.
type DecisionUpdate struct {
	ID         string
	Status     RequestStatus
	ApproverID string
	Comments   *string
	DecidedAt  time.Time
}

type RequestFilter struct {
	Status *string
	Page   int
	Limit  int
}

type RequestResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     *string `json:"employee_name,omitempty"`
	LeaveType        string  `json:"leave_type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Days             string  `json:"days"`
	Reason           string  `json:"reason"`
	Status           string  `json:"status"`
	ApproverID       *string `json:"approver_id,omitempty"`
	ApproverComments *string `json:"approver_comments,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

func ToRequestResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		LeaveType:        string(r.LeaveType),
		StartDate:        r.StartDate.Format("2006-01-02"),
		EndDate:          r.EndDate.Format("2006-01-02"),
		Days:             r.Days.StringFixed(2),
		Reason:           r.Reason,
		Status:           string(r.Status),
		ApproverID:       r.ApproverID,
		ApproverComments: r.ApproverComments,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
	if r.ApprovedAt != nil {
		s := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}

// SetBalanceRequest sets the allotment for (employee, type, year). Used
// days are untouched; remaining is recomputed from the new total.
type SetBalanceRequest struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	Year       int    `json:"year"`
	TotalDays  string `json:"total_days"`
}

func (r *SetBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if !IsValidType(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be annual, sick, unpaid or maternity",
		})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}
	if _, err := decimal.NewFromString(r.TotalDays); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "total_days",
			Message: "total_days must be a decimal number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BalanceResponse struct {
	LeaveType     string `json:"leave_type"`
	Year          int    `json:"year"`
	TotalDays     string `json:"total_days"`
	UsedDays      string `json:"used_days"`
	RemainingDays string `json:"remaining_days"`
}

func ToBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		LeaveType:     string(b.LeaveType),
		Year:          b.Year,
		TotalDays:     b.TotalDays.StringFixed(2),
		UsedDays:      b.UsedDays.StringFixed(2),
		RemainingDays: b.RemainingDays.StringFixed(2),
	}
}
