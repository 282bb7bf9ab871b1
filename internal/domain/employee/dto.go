package employee

import (
	"time"

	"github.com/workforcehq/records-backend-go/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	UserID      string  `json:"user_id"`
	ManagerID   *string `json:"manager_id,omitempty"`
	FullName    string  `json:"full_name"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	Position    string  `json:"position"`
	Department  *string `json:"department,omitempty"`
	HireDate    string  `json:"hire_date"`
	Salary      *string `json:"salary,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position is required",
		})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date must be in YYYY-MM-DD format",
		})
	}
	if r.DOB != nil {
		if _, ok := validator.IsValidDate(*r.DOB); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "dob",
				Message: "dob must be in YYYY-MM-DD format",
			})
		}
	}
	if r.Salary != nil {
		if _, err := decimal.NewFromString(*r.Salary); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "salary",
				Message: "salary must be a decimal number",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ManagerID   *string `json:"manager_id,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	Position    *string `json:"position,omitempty"`
	Department  *string `json:"department,omitempty"`
	Status      *string `json:"status,omitempty"`
	Salary      *string `json:"salary,omitempty"`

	// SalaryToken is set by the service after encrypting Salary; it is
	// never accepted from the caller.
	SalaryToken *string `json:"-"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !IsValidStatus(*r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active, inactive or terminated",
		})
	}
	if r.Salary != nil {
		if _, err := decimal.NewFromString(*r.Salary); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "salary",
				Message: "salary must be a decimal number",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EnrollBiometricRequest carries the raw biometric descriptor. It is
// encrypted before it reaches the store and never echoed back.
type EnrollBiometricRequest struct {
	Descriptor string `json:"descriptor"`
}

func (r *EnrollBiometricRequest) Validate() error {
	if validator.IsEmpty(r.Descriptor) {
		return validator.ValidationErrors{{
			Field:   "descriptor",
			Message: "descriptor is required",
		}}
	}
	return nil
}

type ListFilter struct {
	Status *string
	Page   int
	Limit  int
}

type EmployeeResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	ManagerID   *string `json:"manager_id,omitempty"`
	ManagerName *string `json:"manager_name,omitempty"`
	FullName    string  `json:"full_name"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	Position    string  `json:"position"`
	Department  *string `json:"department,omitempty"`
	HireDate    string  `json:"hire_date"`
	Status      string  `json:"status"`
	Salary      *string `json:"salary,omitempty"`
	ResumeURL   *string `json:"resume_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func ToResponse(e Employee, salary *string) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		ManagerID:   e.ManagerID,
		ManagerName: e.ManagerName,
		FullName:    e.FullName,
		Email:       e.Email,
		PhoneNumber: e.PhoneNumber,
		Address:     e.Address,
		Position:    e.Position,
		Department:  e.Department,
		HireDate:    e.HireDate.Format("2006-01-02"),
		Status:      string(e.Status),
		Salary:      salary,
		ResumeURL:   e.ResumeURL,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.DOB != nil {
		s := e.DOB.Format("2006-01-02")
		resp.DOB = &s
	}
	return resp
}
