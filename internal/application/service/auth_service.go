package service

import (
	"context"

	"github.com/ordino-pos/ordino-api/internal/domain/entity"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/pkg/apperror"
	"github.com/ordino-pos/ordino-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles staff login
type AuthService struct {
	userRepo repository.UserRepository
	jwt      *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{userRepo: userRepo, jwt: jwtManager}
}

// LoginResult carries the issued token and the authenticated user
type LoginResult struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Login authenticates a staff member and issues an access token
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperror.NewAppError(403, "Account is disabled")
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.RoleNames())
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}
