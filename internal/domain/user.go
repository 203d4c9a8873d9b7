package domain

import "time"

// UserRole represents the role of an application user
type UserRole string

const (
	RoleUser     UserRole = "user"
	RoleReviewer UserRole = "reviewer"
	RoleAdmin    UserRole = "admin"
)

// User represents an application user account
type User struct {
	ID           int64     `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanReview reports whether the user may approve or reject leases
func (u *User) CanReview() bool {
	return u.Role == RoleReviewer || u.Role == RoleAdmin
}

// User errors
var (
	ErrUserNotFound       = NewDomainError("user not found")
	ErrUserInactive       = NewDomainError("user account is deactivated")
	ErrInvalidCredentials = NewDomainError("invalid username or password")
)
