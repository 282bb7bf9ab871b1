// Package employee manages employee master records. The base salary is
// encrypted at this boundary: plaintext exists only inside a request or a
// decrypted response, never in the store or the audit trail.
package employee

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/employee"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/pkg/ai"
	"github.com/workforcehq/records-backend-go/internal/pkg/crypto"
	"github.com/workforcehq/records-backend-go/internal/pkg/storage"
	"github.com/workforcehq/records-backend-go/internal/pkg/validator"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type employeeService struct {
	employeeRepo employee.EmployeeRepository
	cipher       *crypto.FieldCipher
	fileStorage  storage.FileStorage
	aiClient     *ai.Client
	recorder     *auditservice.Recorder
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	cipher *crypto.FieldCipher,
	fileStorage storage.FileStorage,
	aiClient *ai.Client,
	recorder *auditservice.Recorder,
) employee.EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		cipher:       cipher,
		fileStorage:  fileStorage,
		aiClient:     aiClient,
		recorder:     recorder,
	}
}

// Create implements employee.EmployeeService.
func (s *employeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := validator.IsValidDate(req.HireDate)

	e := employee.Employee{
		UserID:      req.UserID,
		ManagerID:   req.ManagerID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Position:    req.Position,
		Department:  req.Department,
		HireDate:    hireDate,
		Status:      employee.StatusActive,
	}
	if req.DOB != nil {
		dob, _ := validator.IsValidDate(*req.DOB)
		e.DOB = &dob
	}

	if req.ManagerID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *req.ManagerID); err != nil {
			return employee.EmployeeResponse{}, employee.ErrManagerNotFound
		}
	}

	if req.Salary != nil {
		token, err := s.cipher.Encrypt(*req.Salary)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to encrypt salary: %w", err)
		}
		e.SalaryToken = &token
	}

	created, err := s.employeeRepo.Create(ctx, e)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionEmployeeCreate, "employee", created.ID,
		nil, employee.ToResponse(created, nil), chimiddleware.GetReqID(ctx), "")

	return employee.ToResponse(created, req.Salary), nil
}

// Update implements employee.EmployeeService.
func (s *employeeService) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	before, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.ManagerID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *req.ManagerID); err != nil {
			return employee.EmployeeResponse{}, employee.ErrManagerNotFound
		}
	}

	if req.Salary != nil {
		token, err := s.cipher.Encrypt(*req.Salary)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to encrypt salary: %w", err)
		}
		req.SalaryToken = &token
	}

	if err := s.employeeRepo.Update(ctx, id, req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	after, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionEmployeeUpdate, "employee", id,
		employee.ToResponse(before, nil), employee.ToResponse(after, nil), chimiddleware.GetReqID(ctx), "")

	salary, err := s.decryptSalary(after, p)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(after, salary), nil
}

// GetByID implements employee.EmployeeService. Employees can read their own
// profile; any other profile requires a management or approver role.
func (s *employeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if p.Role == user.RoleEmployee && (p.EmployeeID == nil || *p.EmployeeID != id) {
		return employee.EmployeeResponse{}, employee.ErrUnauthorized
	}

	salary, err := s.decryptSalary(e, p)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e, salary), nil
}

// List implements employee.EmployeeService.
func (s *employeeService) List(ctx context.Context, filter employee.ListFilter) ([]employee.EmployeeResponse, int64, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		salary, err := s.decryptSalary(e, p)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, employee.ToResponse(e, salary))
	}
	return responses, total, nil
}

// UploadResume implements employee.EmployeeService. The upload succeeds or
// fails on storage alone; the AI extraction result rides along whether it
// parsed or not.
func (s *employeeService) UploadResume(ctx context.Context, id string, filename string, contentType string, file io.Reader) (employee.ResumeUploadResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return employee.ResumeUploadResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.ResumeUploadResponse{}, err
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return employee.ResumeUploadResponse{}, fmt.Errorf("failed to read resume: %w", err)
	}

	path := fmt.Sprintf("resumes/%s/%s", id, filename)
	url, err := s.fileStorage.Upload(ctx, bytes.NewReader(content), path, contentType)
	if err != nil {
		return employee.ResumeUploadResponse{}, fmt.Errorf("failed to store resume: %w", err)
	}

	if err := s.employeeRepo.SetResumeURL(ctx, id, url); err != nil {
		return employee.ResumeUploadResponse{}, err
	}

	parse := s.aiClient.ParseResume(ctx, string(content))

	s.recorder.Record(ctx, &p.UserID, audit.ActionEmployeeUpdate, "employee", id,
		map[string]any{"resume_url": e.ResumeURL},
		map[string]any{"resume_url": url, "resume_parsed": parse.Parsed},
		chimiddleware.GetReqID(ctx), "")

	return employee.ResumeUploadResponse{
		ResumeURL: url,
		Parse:     parse,
	}, nil
}

// EnrollBiometric implements employee.EmployeeService. The descriptor is
// sealed under the field cipher; re-enrolling overwrites the previous one.
func (s *employeeService) EnrollBiometric(ctx context.Context, req employee.EnrollBiometricRequest) error {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if p.EmployeeID == nil {
		return employee.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return err
	}

	token, err := s.cipher.Encrypt(req.Descriptor)
	if err != nil {
		return fmt.Errorf("failed to encrypt biometric descriptor: %w", err)
	}
	if err := s.employeeRepo.SetBiometricToken(ctx, *p.EmployeeID, token); err != nil {
		return err
	}

	// descriptor never appears in the trail, only the fact of enrollment
	s.recorder.Record(ctx, &p.UserID, audit.ActionBiometricEnroll, "employee", *p.EmployeeID,
		nil, map[string]bool{"biometric_enrolled": true}, chimiddleware.GetReqID(ctx), "")

	return nil
}

// decryptSalary returns the plaintext salary for callers allowed to see it.
// A token that fails authentication propagates as an error; it must never
// be coerced into "no salary".
func (s *employeeService) decryptSalary(e employee.Employee, p auth.Principal) (*string, error) {
	if e.SalaryToken == nil {
		return nil, nil
	}
	if p.Role != user.RoleAdmin && p.Role != user.RoleHR {
		ownProfile := p.EmployeeID != nil && *p.EmployeeID == e.ID
		if !ownProfile {
			return nil, nil
		}
	}
	salary, err := s.cipher.Decrypt(*e.SalaryToken)
	if err != nil {
		return nil, fmt.Errorf("salary token for employee %s: %w", e.ID, err)
	}
	return &salary, nil
}
