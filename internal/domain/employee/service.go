package employee

import (
	"context"
	"io"

	"github.com/workforcehq/records-backend-go/internal/pkg/ai"
)

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, filter ListFilter) ([]EmployeeResponse, int64, error)

	// UploadResume stores the resume and runs the AI extraction. A failed
	// extraction is a normal outcome, not an error; the upload still counts.
	UploadResume(ctx context.Context, id string, filename string, contentType string, file io.Reader) (ResumeUploadResponse, error)

	// EnrollBiometric encrypts and stores the caller's biometric descriptor,
	// enabling biometric clock-in. Re-enrolling replaces the descriptor.
	EnrollBiometric(ctx context.Context, req EnrollBiometricRequest) error
}

type ResumeUploadResponse struct {
	ResumeURL string         `json:"resume_url"`
	Parse     ai.ParseResult `json:"parse"`
}
