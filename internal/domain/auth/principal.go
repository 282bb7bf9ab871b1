package auth

import (
	"context"

	"github.com/workforcehq/records-backend-go/internal/domain/user"
)

// Principal is the authenticated caller. The Role is read from the store on
// every request, not taken from the token, so revoking or changing a role
// takes effect on the caller's next request.
type Principal struct {
	UserID     string
	Email      string
	EmployeeID *string
	Role       user.Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated caller, or
// ErrUnauthenticated when the request did not pass the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}
