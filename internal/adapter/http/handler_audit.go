package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/service/logger"
	"github.com/leasedesk/leasedesk/internal/usecase"
)

// AuditUseCase defines the behavior the handler depends on.
// Using an interface here makes the handler easily testable with mocks.
type AuditUseCase interface {
	GetChangeLog(ctx context.Context, leaseID int64) ([]domain.ChangeRecord, error)
	GetReviewTable(ctx context.Context, leaseID int64, query string) (*usecase.ReviewTable, error)
	ExportReview(ctx context.Context, req usecase.ExportReviewRequest) error
}

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	auditUseCase AuditUseCase
	log          logger.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditUseCase AuditUseCase, log logger.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: auditUseCase,
		log:          log,
	}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/api/v1/leases/{id}/audit-logs", auth.RequireAuth(h.GetChangeLog)).Methods("GET")
	router.HandleFunc("/api/v1/leases/{id}/audit-transactions", auth.RequireAuth(h.GetReviewTable)).Methods("GET")
	router.HandleFunc("/api/v1/leases/{id}/audit-logs/export", auth.RequireAuth(h.ExportReview)).Methods("POST")
}

// GetChangeLog serves the flat audit feed for a lease, newest first
func (h *AuditHandler) GetChangeLog(w http.ResponseWriter, r *http.Request) {
	leaseID, ok := h.leaseID(w, r)
	if !ok {
		return
	}

	records, err := h.auditUseCase.GetChangeLog(r.Context(), leaseID)
	if err != nil {
		h.writeLoadError(w, r, leaseID, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Audit logs retrieved", map[string]interface{}{
		"logs": records,
	})
}

// GetReviewTable serves the grouped transaction view model. The query
// parameter q pre-applies the summary-row filter.
func (h *AuditHandler) GetReviewTable(w http.ResponseWriter, r *http.Request) {
	leaseID, ok := h.leaseID(w, r)
	if !ok {
		return
	}

	table, err := h.auditUseCase.GetReviewTable(r.Context(), leaseID, r.URL.Query().Get("q"))
	if err != nil {
		h.writeLoadError(w, r, leaseID, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Audit transactions retrieved", table)
}

// ExportReview renders the visible summary rows as an attachment and mails it
func (h *AuditHandler) ExportReview(w http.ResponseWriter, r *http.Request) {
	leaseID, ok := h.leaseID(w, r)
	if !ok {
		return
	}

	var req usecase.ExportReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	req.LeaseID = leaseID

	if len(req.To) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "missing_recipient", "At least one recipient is required")
		return
	}

	if err := h.auditUseCase.ExportReview(r.Context(), req); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			writeErrorResponse(w, http.StatusNotFound, "lease_not_found", "Lease not found")
			return
		}
		h.log.Error(r.Context(), "audit export failed", err, map[string]interface{}{
			"lease_id": leaseID,
		})
		writeErrorResponse(w, http.StatusInternalServerError, "export_failed", "Failed to export audit logs")
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Audit export sent", nil)
}

func (h *AuditHandler) leaseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_lease_id", "Lease ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeLoadError maps load failures for the feed endpoints. A missing lease
// is a 404; anything else is the generic load failure, logged with enough
// detail for operators to tell transport failures from upstream ones.
func (h *AuditHandler) writeLoadError(w http.ResponseWriter, r *http.Request, leaseID int64, err error) {
	if errors.Is(err, domain.ErrLeaseNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "lease_not_found", "Lease not found")
		return
	}
	h.log.Error(r.Context(), "failed to load audit logs", err, map[string]interface{}{
		"lease_id": leaseID,
	})
	writeErrorResponse(w, http.StatusInternalServerError, "load_failed", "Error loading audit logs")
}
