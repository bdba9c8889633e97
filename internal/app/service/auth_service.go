package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"workshop_hub/internal/common"
	"workshop_hub/internal/common/security"
	"workshop_hub/internal/common/validation"
	"workshop_hub/internal/domain/model"
	"workshop_hub/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type LoginResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validation.Email(req.Email); err != nil {
		return nil, err
	}
	if err := validation.Password(req.Password); err != nil {
		return nil, err
	}
	if err := validation.UserName(req.Name); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Name:           strings.TrimSpace(req.Name),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns EMAIL_EXISTS conflict on duplicates
		return nil, err
	}

	token, err := security.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Login checks credentials. Email lookup is case-insensitive; the stored
// casing is what comes back in the response and token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, invalidCredentials()
	}

	token, err := security.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &LoginResponse{User: user, AccessToken: token, TokenType: "Bearer"}, nil
}

// invalidCredentials is the single response for both unknown email and wrong
// password.
func invalidCredentials() error {
	return common.WithCode(
		fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized),
		"INVALID_CREDENTIALS")
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}
