package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
	List(ctx context.Context, filter ListFilter) ([]Employee, int64, error)
	SetResumeURL(ctx context.Context, id string, url string) error

	// SetBiometricToken stores the encrypted biometric descriptor.
	SetBiometricToken(ctx context.Context, id string, token string) error
}
