package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/workforcehq/records-backend-go/internal/domain/payroll"
	"github.com/workforcehq/records-backend-go/internal/handler/http/response"

	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	My(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// Run implements PayrollHandler.
func (h *PayrollHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	var runReq payroll.RunRequest

	if err := json.NewDecoder(r.Body).Decode(&runReq); err != nil {
		slog.Error("Run payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payrollService.Run(r.Context(), runReq)
	if err != nil {
		slog.Error("Run payroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll processed successfully", resp)
}

// Current implements PayrollHandler.
func (h *PayrollHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.GetCurrent(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// My implements PayrollHandler.
func (h *PayrollHandlerImpl) My(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 12)
	filter := payroll.ListFilter{Page: page, Limit: limit}
	if v, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		filter.Year = &v
	}

	records, total, err := h.payrollService.ListMine(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, paginationMeta(page, limit, total))
}

// Pay implements PayrollHandler.
func (h *PayrollHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Mark payroll paid service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll marked as paid", resp)
}
