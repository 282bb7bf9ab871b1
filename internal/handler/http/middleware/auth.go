package middleware

import (
	"net/http"

	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/handler/http/response"

	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired validates the access token and resolves the caller into a
// Principal. The role is read from the store on every request rather than
// trusted from the token, so revocations and role changes apply to tokens
// issued before the change.
func AuthRequired(userRepo user.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			role, err := userRepo.GetRole(r.Context(), userID)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			principal := auth.Principal{
				UserID: userID,
				Role:   role,
			}
			if email, ok := claims["email"].(string); ok {
				principal.Email = email
			}
			if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
				principal.EmployeeID = &employeeID
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		}
		return http.HandlerFunc(hfn)
	}
}
