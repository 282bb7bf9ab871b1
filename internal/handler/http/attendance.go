package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/attendance"
	"github.com/workforcehq/records-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	My(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// ClockIn implements AttendanceHandler. The body is optional; a bare POST
// clocks in without location or biometric.
func (h *AttendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var clockInReq attendance.ClockInRequest

	if err := json.NewDecoder(r.Body).Decode(&clockInReq); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Clock in decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.ClockIn(r.Context(), clockInReq)
	if err != nil {
		slog.Error("Clock in service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", resp)
}

// ClockOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ClockOut(r.Context())
	if err != nil {
		slog.Error("Clock out service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", resp)
}

// My implements AttendanceHandler.
func (h *AttendanceHandlerImpl) My(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 31)
	filter := attendance.MyAttendanceFilter{
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Page:      page,
		Limit:     limit,
	}

	records, total, err := h.attendanceService.GetMyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, paginationMeta(page, limit, total))
}

// Stats implements AttendanceHandler. The date query parameter defaults to
// today.
func (h *AttendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		date = parsed
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	resp, err := h.attendanceService.StatsForDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
