package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	UpdateRole(ctx context.Context, userID string, role Role) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	TouchLastLogin(ctx context.Context, userID string) error

	// GetRole reads the identity's current role. Authorization re-reads it
	// on every request so a role change takes effect immediately.
	GetRole(ctx context.Context, userID string) (Role, error)
}
