package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/ports"
)

// ErrTooManyAttempts is returned when login rate limiting kicks in
var ErrTooManyAttempts = domain.NewDomainError("too many login attempts")

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// AuthUseCase handles login and identity lookup
type AuthUseCase struct {
	userRepo    ports.UserRepository
	passwords   ports.PasswordService
	tokens      ports.TokenService
	limiter     ports.RateLimiter
	loginLimit  int
	loginWindow time.Duration
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase(
	userRepo ports.UserRepository,
	passwords ports.PasswordService,
	tokens ports.TokenService,
	limiter ports.RateLimiter,
	loginLimit int,
	loginWindow time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		passwords:   passwords,
		tokens:      tokens,
		limiter:     limiter,
		loginLimit:  loginLimit,
		loginWindow: loginWindow,
	}
}

// Login authenticates a user and issues an access token
func (uc *AuthUseCase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, err := uc.limiter.Allow(ctx, "login:"+req.Username, uc.loginLimit, uc.loginWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to check login rate limit: %w", err)
	}
	if !allowed {
		return nil, ErrTooManyAttempts
	}

	user, err := uc.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !uc.passwords.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	token, err := uc.tokens.GenerateAccessToken(ports.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// successful login clears the attempt counter
	_ = uc.limiter.Reset(ctx, "login:"+req.Username)

	return &LoginResponse{Token: token, User: user}, nil
}

// Me returns the user behind an authenticated request
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
