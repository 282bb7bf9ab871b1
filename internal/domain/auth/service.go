package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, sessionTrackReq SessionTrackingRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, sessionTrackReq SessionTrackingRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, googleEmail string, googleID string, sessionTrackReq SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// ChangePassword verifies the caller's current password before storing
	// the new hash.
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error

	// SetRole changes an identity's role. The change takes effect on the
	// target's next request because authorization re-reads the stored role.
	SetRole(ctx context.Context, userID string, role string) error
}
