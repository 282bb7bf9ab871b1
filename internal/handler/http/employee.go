package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/workforcehq/records-backend-go/internal/domain/employee"
	"github.com/workforcehq/records-backend-go/internal/handler/http/response"

	"github.com/go-chi/chi/v5"
)

// maxResumeSize bounds the multipart resume upload.
const maxResumeSize = 10 << 20

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UploadResume(w http.ResponseWriter, r *http.Request)
	EnrollBiometric(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &EmployeeHandlerImpl{employeeService: employeeService}
}

// Create implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq employee.CreateEmployeeRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create employee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.employeeService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Create employee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", resp)
}

// Update implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq employee.UpdateEmployeeRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update employee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.employeeService.Update(r.Context(), chi.URLParam(r, "id"), updateReq)
	if err != nil {
		slog.Error("Update employee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", resp)
}

// GetByID implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.employeeService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)
	filter := employee.ListFilter{
		Status: optionalQuery(r, "status"),
		Page:   page,
		Limit:  limit,
	}

	employees, total, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, employees, paginationMeta(page, limit, total))
}

// EnrollBiometric implements EmployeeHandler. Enrollment always targets the
// caller's own profile.
func (h *EmployeeHandlerImpl) EnrollBiometric(w http.ResponseWriter, r *http.Request) {
	var enrollReq employee.EnrollBiometricRequest

	if err := json.NewDecoder(r.Body).Decode(&enrollReq); err != nil {
		slog.Error("Enroll biometric decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.employeeService.EnrollBiometric(r.Context(), enrollReq); err != nil {
		slog.Error("Enroll biometric service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Biometric descriptor enrolled successfully", nil)
}

// UploadResume implements EmployeeHandler.
func (h *EmployeeHandlerImpl) UploadResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		response.BadRequest(w, "resume file is required", nil)
		return
	}
	defer file.Close()

	resp, err := h.employeeService.UploadResume(
		r.Context(),
		chi.URLParam(r, "id"),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		slog.Error("Upload resume service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Resume uploaded successfully", resp)
}
