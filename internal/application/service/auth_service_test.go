package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
	"github.com/ordino-pos/ordino-api/pkg/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func newAuthServiceFixture() (*MockUserRepository, *AuthService) {
	userRepo := new(MockUserRepository)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	return userRepo, NewAuthService(userRepo, jwtManager)
}

func testUser(t *testing.T, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{
		ID:       uuid.New(),
		FullName: "Test Waiter",
		Username: "waiter1",
		Password: string(hash),
		IsActive: true,
		Roles:    []entity.Role{{Name: "waiter"}},
	}
}

func TestLoginIssuesToken(t *testing.T) {
	userRepo, service := newAuthServiceFixture()

	user := testUser(t, "secret123")
	userRepo.On("GetByUsername", mock.Anything, "waiter1").Return(user, nil)

	result, err := service.Login(context.Background(), "waiter1", "secret123")

	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, user.ID, result.User.ID)

	claims, err := utils.NewJWTManager("test-secret", time.Hour).ValidateAccessToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, []string{"waiter"}, claims.Roles)
}

func TestLoginUnknownUser(t *testing.T) {
	userRepo, service := newAuthServiceFixture()

	userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

	_, err := service.Login(context.Background(), "ghost", "whatever")

	require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo, service := newAuthServiceFixture()

	user := testUser(t, "secret123")
	userRepo.On("GetByUsername", mock.Anything, "waiter1").Return(user, nil)

	_, err := service.Login(context.Background(), "waiter1", "nope")

	require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	userRepo, service := newAuthServiceFixture()

	user := testUser(t, "secret123")
	user.IsActive = false
	userRepo.On("GetByUsername", mock.Anything, "waiter1").Return(user, nil)

	_, err := service.Login(context.Background(), "waiter1", "secret123")

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.Equal(t, http.StatusForbidden, appErr.Code)
	require.Contains(t, appErr.Message, "disabled")
}
