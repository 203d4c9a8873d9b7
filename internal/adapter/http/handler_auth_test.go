package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/ports"
	"github.com/leasedesk/leasedesk/internal/usecase"
)

// MockAuthUseCase is a mock implementation of AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, req usecase.LoginRequest) (*usecase.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginResponse), args.Error(1)
}

func (m *MockAuthUseCase) Me(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newAuthTestRouter(uc AuthUseCase) *mux.Router {
	router := mux.NewRouter()
	auth := NewAuthMiddleware(&stubTokenService{
		token:  "valid-token",
		claims: ports.TokenClaims{UserID: 9, Username: "bob", Role: "reviewer"},
	})
	NewAuthHandler(uc).RegisterRoutes(router, auth)
	return router
}

func TestAuthHandler_Login(t *testing.T) {
	uc := new(MockAuthUseCase)
	router := newAuthTestRouter(uc)

	uc.On("Login", mock.Anything, usecase.LoginRequest{Username: "bob", Password: "secret"}).
		Return(&usecase.LoginResponse{
			Token: "token-abc",
			User:  &domain.User{ID: 9, Username: "bob", Role: domain.RoleReviewer, IsActive: true},
		}, nil)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"username":"bob","password":"secret"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["status"])
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "token-abc", data["token"])
}

func TestAuthHandler_Login_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantTag  string
	}{
		{"rate limited", usecase.ErrTooManyAttempts, http.StatusTooManyRequests, "too_many_attempts"},
		{"inactive account", domain.ErrUserInactive, http.StatusForbidden, "account_disabled"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"infrastructure failure", errors.New("redis down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockAuthUseCase)
			router := newAuthTestRouter(uc)
			uc.On("Login", mock.Anything, mock.Anything).Return(nil, tt.err)

			req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(`{"username":"bob","password":"x"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			envelope := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantTag, envelope["code"])
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	uc := new(MockAuthUseCase)
	router := newAuthTestRouter(uc)

	rec := doAuthed(router, "POST", "/api/v1/auth/logout", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["status"])
	assert.Equal(t, "Logout successful", envelope["message"])
}

func TestAuthHandler_Logout_RequiresAuth(t *testing.T) {
	router := newAuthTestRouter(new(MockAuthUseCase))

	req := httptest.NewRequest("POST", "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	uc := new(MockAuthUseCase)
	router := newAuthTestRouter(uc)

	uc.On("Me", mock.Anything, int64(9)).
		Return(&domain.User{ID: 9, Username: "bob", Role: domain.RoleReviewer, IsActive: true}, nil)

	rec := doAuthed(router, "GET", "/api/v1/auth/me", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "bob", data["username"])
}

func TestAuthHandler_Me_RequiresAuth(t *testing.T) {
	uc := new(MockAuthUseCase)
	router := newAuthTestRouter(uc)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	uc.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}
