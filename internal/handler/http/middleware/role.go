package middleware

import (
	"net/http"

	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/handler/http/response"
)

// RequireRole allows only the listed roles past. It must sit after
// AuthRequired in the chain; the role it checks is the store-fresh one the
// auth middleware resolved.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.PrincipalFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.HandleError(w, auth.ErrForbidden)
		}
		return http.HandlerFunc(hfn)
	}
}
