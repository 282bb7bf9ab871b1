package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/workforcehq/records-backend-go/internal/domain/leave"
	"github.com/workforcehq/records-backend-go/internal/handler/http/response"

	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	FileRequest(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	My(w http.ResponseWriter, r *http.Request)
	Pending(w http.ResponseWriter, r *http.Request)
	Balances(w http.ResponseWriter, r *http.Request)
	SetBalance(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// FileRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) FileRequest(w http.ResponseWriter, r *http.Request) {
	var createReq leave.CreateRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("File leave request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.leaveService.FileRequest(r.Context(), createReq)
	if err != nil {
		slog.Error("File leave request service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request filed successfully", resp)
}

// Decide implements LeaveHandler.
func (h *LeaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var decideReq leave.DecideRequest

	if err := json.NewDecoder(r.Body).Decode(&decideReq); err != nil {
		slog.Error("Decide leave request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.leaveService.Decide(r.Context(), chi.URLParam(r, "id"), decideReq)
	if err != nil {
		slog.Error("Decide leave request service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request decided successfully", resp)
}

// My implements LeaveHandler.
func (h *LeaveHandlerImpl) My(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)
	filter := leave.RequestFilter{
		Status: optionalQuery(r, "status"),
		Page:   page,
		Limit:  limit,
	}

	requests, total, err := h.leaveService.GetMyRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, paginationMeta(page, limit, total))
}

// Pending implements LeaveHandler.
func (h *LeaveHandlerImpl) Pending(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)
	filter := leave.RequestFilter{Page: page, Limit: limit}

	requests, total, err := h.leaveService.GetPending(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, paginationMeta(page, limit, total))
}

// Balances implements LeaveHandler.
func (h *LeaveHandlerImpl) Balances(w http.ResponseWriter, r *http.Request) {
	year := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = v
	}

	balances, err := h.leaveService.GetMyBalances(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// SetBalance implements LeaveHandler.
func (h *LeaveHandlerImpl) SetBalance(w http.ResponseWriter, r *http.Request) {
	var setReq leave.SetBalanceRequest

	if err := json.NewDecoder(r.Body).Decode(&setReq); err != nil {
		slog.Error("Set leave balance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.leaveService.SetBalance(r.Context(), setReq)
	if err != nil {
		slog.Error("Set leave balance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance set successfully", resp)
}
