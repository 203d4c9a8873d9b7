package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/usecase"
)

// LeaseUseCase defines the behavior the handler depends on
type LeaseUseCase interface {
	GetLease(ctx context.Context, id int64) (*domain.Lease, error)
	UpdateLease(ctx context.Context, req usecase.UpdateLeaseRequest) (*domain.Lease, error)
}

// LeaseHandler handles HTTP requests for leases
type LeaseHandler struct {
	leaseUseCase LeaseUseCase
}

// NewLeaseHandler creates a new lease handler
func NewLeaseHandler(leaseUseCase LeaseUseCase) *LeaseHandler {
	return &LeaseHandler{leaseUseCase: leaseUseCase}
}

// RegisterRoutes registers lease routes
func (h *LeaseHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/api/v1/leases/{id}", auth.RequireAuth(h.GetLease)).Methods("GET")
	router.HandleFunc("/api/v1/leases/{id}", auth.RequireAuth(h.UpdateLease)).Methods("PUT")
}

// GetLease retrieves a single lease
func (h *LeaseHandler) GetLease(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leaseID(w, r)
	if !ok {
		return
	}

	lease, err := h.leaseUseCase.GetLease(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Lease retrieved", lease)
}

// UpdateLease applies a field-level edit to a lease. Every changed field is
// recorded in the audit trail under the authenticated user.
func (h *LeaseHandler) UpdateLease(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leaseID(w, r)
	if !ok {
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var fields map[string]*string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	lease, err := h.leaseUseCase.UpdateLease(r.Context(), usecase.UpdateLeaseRequest{
		LeaseID:  id,
		UserID:   claims.UserID,
		Username: claims.Username,
		Fields:   fields,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Lease updated", lease)
}

func (h *LeaseHandler) leaseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_lease_id", "Lease ID must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *LeaseHandler) writeError(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	switch {
	case errors.Is(err, domain.ErrLeaseNotFound):
		writeErrorResponse(w, http.StatusNotFound, "lease_not_found", "Lease not found")
	case errors.As(err, &domainErr):
		writeErrorResponse(w, http.StatusBadRequest, "invalid_update", domainErr.Message)
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to process lease")
	}
}
