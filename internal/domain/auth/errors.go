package auth

import "errors"

var (
	// ErrInvalidCredentials covers both "no such identity" and "wrong
	// password" so the login endpoint gives no account-enumeration signal.
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("role not permitted for this operation")
)
