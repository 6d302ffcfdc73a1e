package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func createTestUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("testuser", "Password123", identity.UserRoleStaff)
	require.NoError(t, err)
	return user
}

func createAuthService(userRepo *MockUserRepository) *AuthService {
	jwtCfg := config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		RefreshSecret:          "test-refresh-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}

	return NewAuthService(
		userRepo,
		auth.NewJWTService(jwtCfg),
		auth.NewInMemoryTokenBlacklist(),
		DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	return domainErr.Code
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	service := createAuthService(userRepo)

	result, err := service.Login(ctx, LoginRequest{
		Username: "testuser",
		Password: "Password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "testuser", result.User.Username)
	assert.Equal(t, "staff", result.User.Role)
	assert.NotNil(t, user.LastLoginAt)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	service := createAuthService(userRepo)

	result, err := service.Login(ctx, LoginRequest{
		Username: "testuser",
		Password: "wrongpassword",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

	service := createAuthService(userRepo)

	_, err := service.Login(ctx, LoginRequest{Username: "ghost", Password: "whatever1"})

	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
}

func TestAuthService_Login_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	service := createAuthService(userRepo)

	var lastErr error
	for i := 0; i < 5; i++ {
		_, lastErr = service.Login(ctx, LoginRequest{
			Username: "testuser",
			Password: "wrongpassword",
		})
	}

	require.Error(t, lastErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainCode(t, lastErr))
	assert.True(t, user.IsLocked())

	// Even the right password is rejected while locked
	_, err := service.Login(ctx, LoginRequest{
		Username: "testuser",
		Password: "Password123",
	})
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_LOCKED", domainCode(t, err))
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t)
	require.NoError(t, user.Deactivate())

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)

	service := createAuthService(userRepo)

	_, err := service.Login(ctx, LoginRequest{
		Username: "testuser",
		Password: "Password123",
	})

	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", domainCode(t, err))
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	service := createAuthService(userRepo)

	login, err := service.Login(ctx, LoginRequest{
		Username: "testuser",
		Password: "Password123",
	})
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(ctx, RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	service := createAuthService(userRepo)

	_, err := service.RefreshToken(ctx, RefreshTokenRequest{
		RefreshToken: "not-a-token",
	})

	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", domainCode(t, err))
}

func TestAuthService_Logout_RevokesTokens(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t)

	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	service := createAuthService(userRepo)

	login, err := service.Login(ctx, LoginRequest{
		Username: "testuser",
		Password: "Password123",
	})
	require.NoError(t, err)

	accessClaims, err := service.jwtService.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, accessClaims, login.RefreshToken))

	revoked, err := service.IsTokenRevoked(ctx, accessClaims)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = service.RefreshToken(ctx, RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, "TOKEN_REVOKED", domainCode(t, err))
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t)

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	service := createAuthService(userRepo)

	err := service.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		OldPassword: "Password123",
		NewPassword: "NewPassword456",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("NewPassword456"))

	err = service.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		OldPassword: "Password123",
		NewPassword: "AnotherPass789",
	})
	require.Error(t, err)
}
