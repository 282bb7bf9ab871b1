package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/handler/http/response"

	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	ChangePassword(w http.ResponseWriter, r *http.Request)
	SetRole(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	authService auth.AuthService
}

func NewUserHandler(authService auth.AuthService) UserHandler {
	return &UserHandlerImpl{authService: authService}
}

// ChangePassword implements UserHandler.
func (h *UserHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ChangePasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Change password decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password changed successfully", nil)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole implements UserHandler.
func (h *UserHandlerImpl) SetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Set role decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.authService.SetRole(r.Context(), chi.URLParam(r, "id"), req.Role); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role updated successfully", nil)
}
