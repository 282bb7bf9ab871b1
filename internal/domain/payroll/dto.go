package payroll

import (
	"time"

	"github.com/workforcehq/records-backend-go/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

type RunRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Bonuses    string `json:"bonuses"`
	Overtime   string `json:"overtime"`
	Deductions string `json:"deductions"`
	Tax        string `json:"tax"`
}

func (r *RunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}
	for field, value := range map[string]string{
		"bonuses":    r.Bonuses,
		"overtime":   r.Overtime,
		"deductions": r.Deductions,
		"tax":        r.Tax,
	} {
		if value == "" {
			continue
		}
		if _, err := decimal.NewFromString(value); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a decimal number",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Amount returns a named decimal field, treating the empty string as zero.
func (r *RunRequest) Amount(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, _ := decimal.NewFromString(value)
	return d
}

type ListFilter struct {
	Year  *int
	Page  int
	Limit int
}

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	BaseSalary   string  `json:"base_salary"`
	Bonuses      string  `json:"bonuses"`
	Overtime     string  `json:"overtime"`
	Deductions   string  `json:"deductions"`
	Tax          string  `json:"tax"`
	NetSalary    string  `json:"net_salary"`
	DaysWorked   string  `json:"days_worked"`
	DaysAbsent   string  `json:"days_absent"`
	PayslipURL   *string `json:"payslip_url,omitempty"`
	PaidAt       *string `json:"paid_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func ToResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Month:        r.Month,
		Year:         r.Year,
		BaseSalary:   r.BaseSalary.StringFixed(2),
		Bonuses:      r.Bonuses.StringFixed(2),
		Overtime:     r.Overtime.StringFixed(2),
		Deductions:   r.Deductions.StringFixed(2),
		Tax:          r.Tax.StringFixed(2),
		NetSalary:    r.NetSalary.StringFixed(2),
		DaysWorked:   r.DaysWorked.StringFixed(2),
		DaysAbsent:   r.DaysAbsent.StringFixed(2),
		PayslipURL:   r.PayslipURL,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.PaidAt != nil {
		s := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}
