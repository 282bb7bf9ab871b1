package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/user"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokenAuth  *jwtauth.JWTAuth
}

// NewJWTService builds an HS256 signer. Expirations are Go duration strings
// ("15m", "720h"); a malformed one surfaces on the first token issued, not
// at startup, so both are parsed eagerly here and cached.
func NewJWTService(secretKey string, accessExpiration string, refreshExpiration string) Service {
	accessTTL, err := time.ParseDuration(accessExpiration)
	if err != nil {
		accessTTL = 15 * time.Minute
	}
	refreshTTL, err := time.ParseDuration(refreshExpiration)
	if err != nil {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &JWTService{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokenAuth:  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (string, int64, error) {
	expiresAt := time.Now().Add(j.accessTTL).Unix()

	claims := map[string]any{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    "access",
		"exp":     expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	} else {
		claims["employee_id"] = nil
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode access token: %w", err)
	}
	return tokenString, expiresAt, nil
}

func (j *JWTService) GenerateRefreshToken(userID string) (string, int64, error) {
	expiresAt := time.Now().Add(j.refreshTTL).Unix()

	// jti keeps two tokens for the same user issued in the same second from
	// colliding in the session store
	_, tokenString, err := j.tokenAuth.Encode(map[string]any{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     expiresAt,
		"type":    "refresh",
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode refresh token: %w", err)
	}
	return tokenString, expiresAt, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}
