package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/Bochino693/Smart-Adega/pkg/apperror"
	"github.com/Bochino693/Smart-Adega/pkg/utils"
)

// AuthService handles login and operator account management
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// TokenPair holds the issued access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*entity.User, *TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, apperror.NewInternalError(err)
	}
	if user == nil {
		return nil, nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, apperror.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}
	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *entity.User) (*TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// CreateUserInput represents operator account creation input
type CreateUserInput struct {
	Username string
	Name     string
	Password string
	Role     string
}

// CreateUser registers a new operator account. Only admins reach this path;
// the handler enforces the role.
func (s *AuthService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	input.Username = strings.TrimSpace(strings.ToLower(input.Username))
	if input.Username == "" || input.Password == "" {
		return nil, apperror.NewInvalidInputError("Username and password are required")
	}
	if len(input.Password) < 6 {
		return nil, apperror.NewInvalidInputError("Password must be at least 6 characters")
	}
	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if existing != nil {
		return nil, apperror.NewInvalidStateError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	role := input.Role
	if role == "" {
		role = "operator"
	}
	user := &entity.User{
		Username: input.Username,
		Name:     input.Name,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return user, nil
}

// ListUsers returns all operator accounts
func (s *AuthService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return users, nil
}
