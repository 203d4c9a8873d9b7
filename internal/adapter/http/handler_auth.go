package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/usecase"
)

// AuthUseCase defines the behavior the handler depends on
type AuthUseCase interface {
	Login(ctx context.Context, req usecase.LoginRequest) (*usecase.LoginResponse, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	authUseCase AuthUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUseCase AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/logout", auth.RequireAuth(h.Logout)).Methods("POST")
	router.HandleFunc("/api/v1/auth/me", auth.RequireAuth(h.Me)).Methods("GET")
}

// Login handles username/password authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	resp, err := h.authUseCase.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTooManyAttempts):
			writeErrorResponse(w, http.StatusTooManyRequests, "too_many_attempts", "Too many login attempts, try again later")
		case errors.Is(err, domain.ErrUserInactive):
			writeErrorResponse(w, http.StatusForbidden, "account_disabled", "Account is deactivated")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		default:
			writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to log in")
		}
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Login successful", resp)
}

// Logout acknowledges the end of a session. Access tokens are stateless, so
// there is nothing to revoke server-side; the client discards its token on a
// successful response.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := ClaimsFromContext(r.Context()); !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Logout successful", nil)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	user, err := h.authUseCase.Me(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to load user")
		return
	}

	writeSuccessResponse(w, http.StatusOK, "User retrieved", user)
}
