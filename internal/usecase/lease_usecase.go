package usecase

import (
	"context"
	"fmt"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/ports"
)

// editableLeaseFields are the lease columns an update request may touch
var editableLeaseFields = map[string]bool{
	"agreement_title":  true,
	"status":           true,
	"rent":             true,
	"term_months":      true,
	"start_date":       true,
	"end_date":         true,
	"allocation":       true,
	"rejection_reason": true,
}

// UpdateLeaseRequest carries an authenticated lease edit
type UpdateLeaseRequest struct {
	LeaseID  int64              `json:"lease_id"`
	UserID   int64              `json:"user_id"`
	Username string             `json:"username"`
	Fields   map[string]*string `json:"fields"`
}

// LeaseUseCase handles lease reads and audited lease edits
type LeaseUseCase struct {
	leaseRepo ports.LeaseRepository
	recorder  *AuditUseCase
}

// NewLeaseUseCase creates a new lease use case
func NewLeaseUseCase(leaseRepo ports.LeaseRepository, recorder *AuditUseCase) *LeaseUseCase {
	return &LeaseUseCase{
		leaseRepo: leaseRepo,
		recorder:  recorder,
	}
}

// GetLease retrieves a lease by ID
func (uc *LeaseUseCase) GetLease(ctx context.Context, id int64) (*domain.Lease, error) {
	lease, err := uc.leaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find lease: %w", err)
	}
	if lease == nil {
		return nil, domain.ErrLeaseNotFound
	}
	return lease, nil
}

// UpdateLease applies a field-level edit to a lease and records one audit
// record per field that actually changed. The audit records of one call
// share a single timestamp, so they show up as one transaction in the
// review view.
func (uc *LeaseUseCase) UpdateLease(ctx context.Context, req UpdateLeaseRequest) (*domain.Lease, error) {
	if len(req.Fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	for name := range req.Fields {
		if !editableLeaseFields[name] {
			return nil, domain.NewDomainError(fmt.Sprintf("field %q is not editable", name))
		}
	}

	old, err := uc.leaseRepo.FieldValues(ctx, req.LeaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current lease values: %w", err)
	}
	if old == nil {
		return nil, domain.ErrLeaseNotFound
	}

	if err := uc.leaseRepo.Update(ctx, req.LeaseID, req.Fields); err != nil {
		return nil, fmt.Errorf("failed to update lease: %w", err)
	}

	_, err = uc.recorder.RecordLeaseChanges(ctx, RecordChangesRequest{
		LeaseID:  req.LeaseID,
		UserID:   req.UserID,
		Username: req.Username,
		Action:   domain.ActionUpdate,
		Old:      old,
		New:      req.Fields,
	})
	if err != nil {
		return nil, err
	}

	return uc.GetLease(ctx, req.LeaseID)
}
