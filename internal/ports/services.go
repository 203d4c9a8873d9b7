package ports

import (
	"context"
	"time"
)

// TokenClaims is the authenticated identity carried inside an access token
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenService defines the interface for access-token issuance and validation
type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// PasswordService defines the interface for password hashing
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// RateLimiter defines the interface for login attempt limiting
type RateLimiter interface {
	// Allow records an attempt for key and reports whether it is within
	// limit for the window
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Reset clears the attempt counter for key
	Reset(ctx context.Context, key string) error
}
