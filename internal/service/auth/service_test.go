package auth

import (
	"context"
	"testing"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/user"
	"github.com/workforcehq/records-backend-go/internal/pkg/jwt"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepository struct {
	users map[string]user.User
}

func (f *fakeUserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) Create(_ context.Context, newUser user.User) (user.User, error) {
	for _, u := range f.users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	newUser.ID = "0198c5b4-0000-7000-8000-0000000000ff"
	newUser.CreatedAt = time.Now()
	f.users[newUser.ID] = newUser
	return newUser, nil
}

func (f *fakeUserRepository) LinkGoogleAccount(_ context.Context, googleID string, email string) (user.User, error) {
	provider := "google"
	for id, u := range f.users {
		if u.Email == email {
			u.OAuthProvider = &provider
			u.OAuthProviderID = &googleID
			f.users[id] = u
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepository) UpdateRole(_ context.Context, userID string, role user.Role) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepository) TouchLastLogin(_ context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepository) GetRole(_ context.Context, userID string) (user.Role, error) {
	u, ok := f.users[userID]
	if !ok {
		return "", user.ErrUserNotFound
	}
	return u.Role, nil
}

type fakeJWTRepository struct {
	stored []string
}

func (f *fakeJWTRepository) CreateRefreshToken(_ context.Context, _ string, token string, _ int64, _ auth.SessionTrackingRequest) error {
	f.stored = append(f.stored, token)
	return nil
}

func (f *fakeJWTRepository) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	for _, t := range f.stored {
		if t == token {
			return "", false, nil
		}
	}
	return "", true, nil
}

func (f *fakeJWTRepository) RevokeRefreshToken(_ context.Context, _ string) error {
	return nil
}

type fakeAuditRepo struct {
	entries []audit.Entry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ audit.Filter) ([]audit.Entry, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const (
	testUserID     = "0198c5b4-0000-7000-8000-000000000001"
	testEmployeeID = "0198c5b4-0000-7000-8000-000000000010"
)

func newTestAuthService(userRepo *fakeUserRepository) (auth.AuthService, jwt.Service) {
	jwtSvc := jwt.NewJWTService("test-secret", "15m", "720h")
	return NewAuthService(fakeTransactor{}, userRepo, &fakeJWTRepository{}, jwtSvc, auditservice.NewRecorder(&fakeAuditRepo{})), jwtSvc
}

func accessClaims(t *testing.T, jwtSvc jwt.Service, tokenString string) map[string]any {
	t.Helper()
	decoded, err := jwtauth.VerifyToken(jwtSvc.JWTAuth(), tokenString)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	return claims
}

func existingUser(passwordHash *string) *fakeUserRepository {
	employeeID := testEmployeeID
	return &fakeUserRepository{users: map[string]user.User{
		testUserID: {
			ID:           testUserID,
			Email:        "jane@example.com",
			PasswordHash: passwordHash,
			Role:         user.RoleEmployee,
			EmployeeID:   &employeeID,
		},
	}}
}

func TestLoginIssuesTokensWithEmployeeClaim(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	svc, jwtSvc := newTestAuthService(existingUser(&hashStr))

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct horse",
	}, auth.SessionTrackingRequest{})

	require.NoError(t, err)
	claims := accessClaims(t, jwtSvc, tokens.AccessToken)
	assert.Equal(t, testUserID, claims["user_id"])
	assert.Equal(t, testEmployeeID, claims["employee_id"])
	assert.Equal(t, "access", claims["type"])
}

func TestLoginCollapsesFailureModes(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	svc, _ := newTestAuthService(existingUser(&hashStr))

	_, err = svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong password",
	}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginWithGoogleLinkKeepsEmployeeClaim(t *testing.T) {
	// a password account with an employee profile logs in via Google for
	// the first time; the linked identity must keep its profile binding
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	userRepo := existingUser(&hashStr)
	svc, jwtSvc := newTestAuthService(userRepo)

	tokens, err := svc.LoginWithGoogle(context.Background(), "jane@example.com", "google-id-1", auth.SessionTrackingRequest{})

	require.NoError(t, err)
	claims := accessClaims(t, jwtSvc, tokens.AccessToken)
	assert.Equal(t, testEmployeeID, claims["employee_id"])

	linked := userRepo.users[testUserID]
	require.NotNil(t, linked.OAuthProviderID)
	assert.Equal(t, "google-id-1", *linked.OAuthProviderID)
}

func TestLoginWithGoogleProvisionsNewIdentity(t *testing.T) {
	userRepo := &fakeUserRepository{users: map[string]user.User{}}
	svc, jwtSvc := newTestAuthService(userRepo)

	tokens, err := svc.LoginWithGoogle(context.Background(), "new@example.com", "google-id-2", auth.SessionTrackingRequest{})

	require.NoError(t, err)
	claims := accessClaims(t, jwtSvc, tokens.AccessToken)
	assert.Equal(t, string(user.RoleEmployee), claims["role"])
	assert.Nil(t, claims["employee_id"])
	require.Len(t, userRepo.users, 1)
}
