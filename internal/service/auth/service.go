// Package auth implements identity verification and token issuance. Login
// deliberately collapses "unknown email" and "wrong password" into one
// error so the endpoint gives no account-enumeration signal.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/pkg/jwt"
	"github.com/workforcehq/records-backend-go/internal/pkg/validator"
	"github.com/workforcehq/records-backend-go/internal/repository/postgresql"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	tx         postgresql.Transactor
	userRepo   user.UserRepository
	jwtRepo    postgresql.JWTRepository
	jwtService jwt.Service
	recorder   *auditservice.Recorder
}

func NewAuthService(
	tx postgresql.Transactor,
	userRepo user.UserRepository,
	jwtRepo postgresql.JWTRepository,
	jwtService jwt.Service,
	recorder *auditservice.Recorder,
) auth.AuthService {
	return &authService{
		tx:         tx,
		userRepo:   userRepo,
		jwtRepo:    jwtRepo,
		jwtService: jwtService,
		recorder:   recorder,
	}
}

// Register implements auth.AuthService. New identities always start as
// employee; role elevation is a separate admin operation.
func (s *authService) Register(ctx context.Context, req auth.RegisterRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	var tokens auth.TokenResponse
	var created user.User
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.userRepo.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: &hashStr,
			Role:         user.RoleEmployee,
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return auth.ErrEmailAlreadyExists
			}
			return err
		}

		tokens, err = s.issueTokens(txCtx, created, sessionTrackReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	s.recorder.Record(ctx, &created.ID, audit.ActionRegister, "user", created.ID,
		nil, user.ToResponse(created), chimiddleware.GetReqID(ctx), sessionTrackReq.IPAddress)

	return tokens, nil
}

// Login implements auth.AuthService.
func (s *authService) Login(ctx context.Context, req auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, err
	}

	// OAuth-only identities have no password to check
	if u.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokens auth.TokenResponse
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.TouchLastLogin(txCtx, u.ID); err != nil {
			return err
		}
		tokens, err = s.issueTokens(txCtx, u, sessionTrackReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	s.recorder.Record(ctx, &u.ID, audit.ActionLogin, "user", u.ID,
		nil, map[string]string{"email": u.Email}, chimiddleware.GetReqID(ctx), sessionTrackReq.IPAddress)

	return tokens, nil
}

// LoginWithGoogle implements auth.AuthService. A first-time Google login
// provisions the identity; a returning one links the provider ID if the
// account predates the link.
func (s *authService) LoginWithGoogle(ctx context.Context, googleEmail string, googleID string, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	provider := "google"

	u, err := s.userRepo.GetByEmail(ctx, googleEmail)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, err
		}
		u, err = s.userRepo.Create(ctx, user.User{
			Email:           googleEmail,
			Role:            user.RoleEmployee,
			OAuthProvider:   &provider,
			OAuthProviderID: &googleID,
		})
		if err != nil {
			return auth.TokenResponse{}, err
		}
	} else if u.OAuthProviderID == nil {
		u, err = s.userRepo.LinkGoogleAccount(ctx, googleID, googleEmail)
		if err != nil {
			return auth.TokenResponse{}, err
		}
	}

	var tokens auth.TokenResponse
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.TouchLastLogin(txCtx, u.ID); err != nil {
			return err
		}
		tokens, err = s.issueTokens(txCtx, u, sessionTrackReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	s.recorder.Record(ctx, &u.ID, audit.ActionLogin, "user", u.ID,
		nil, map[string]string{"email": u.Email, "provider": provider}, chimiddleware.GetReqID(ctx), sessionTrackReq.IPAddress)

	return tokens, nil
}

// Logout implements auth.AuthService. Revoking an unknown token is a no-op;
// logout never fails because the client already lost the session.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.jwtRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		slog.Error("failed to revoke refresh token on logout", "error", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService. The new access token carries
// the identity's current role, not the role at original login.
func (s *authService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	token, err := jwtauth.VerifyToken(s.jwtService.JWTAuth(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return auth.AccessTokenResponse{}, auth.ErrTokenExpired
		}
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userID, revoked, err := s.jwtRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, err
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.EmployeeID, u.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}

// ChangePassword implements auth.AuthService. The old password is checked
// first; OAuth-only identities have no password to change.
func (s *authService) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if u.PasswordHash == nil {
		return auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.OldPassword)); err != nil {
		return auth.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionPasswordChange, "user", u.ID,
		nil, nil, chimiddleware.GetReqID(ctx), "")

	return nil
}

// SetRole implements auth.AuthService.
func (s *authService) SetRole(ctx context.Context, userID string, role string) error {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.IsValidRole(role) {
		return validator.ValidationErrors{{
			Field:   "role",
			Message: "role must be admin, senior_manager, hr or employee",
		}}
	}

	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrUserNotFound
		}
		return err
	}
	if err := s.userRepo.UpdateRole(ctx, userID, user.Role(role)); err != nil {
		return err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionRoleSet, "user", userID,
		map[string]string{"role": string(target.Role)}, map[string]string{"role": role},
		chimiddleware.GetReqID(ctx), "")

	return nil
}

func (s *authService) issueTokens(ctx context.Context, u user.User, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.EmployeeID, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.jwtRepo.CreateRefreshToken(ctx, u.ID, refreshToken, refreshExpiresAt, sessionTrackReq); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresAt,
	}, nil
}
