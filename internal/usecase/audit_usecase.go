package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/ports"
)

// changeTimestampLayout matches the TEXT timestamps the audit table stores.
// Lexicographic order on this layout equals chronological order, which is
// what keeps the descending feed contract cheap to provide.
const changeTimestampLayout = "2006-01-02 15:04:05"

// RecordChangesRequest describes one logical lease edit to be audited
type RecordChangesRequest struct {
	LeaseID  int64               `json:"lease_id"`
	UserID   int64               `json:"user_id"`
	Username string              `json:"username"`
	Action   domain.ChangeAction `json:"action"`
	Old      map[string]*string  `json:"old"`
	New      map[string]*string  `json:"new"`
}

// ExportReviewRequest describes an export-and-mail of the review table
type ExportReviewRequest struct {
	LeaseID int64    `json:"lease_id"`
	Query   string   `json:"query"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// AuditUseCase handles the audit trail: recording field-level changes,
// serving the raw feed, and building the grouped review view model.
type AuditUseCase struct {
	auditRepo ports.AuditLogRepository
	leaseRepo ports.LeaseRepository
	exporter  ports.Exporter
	notifier  ports.Notifier
	now       func() time.Time
}

// NewAuditUseCase creates a new audit use case
func NewAuditUseCase(
	auditRepo ports.AuditLogRepository,
	leaseRepo ports.LeaseRepository,
	exporter ports.Exporter,
	notifier ports.Notifier,
) *AuditUseCase {
	return &AuditUseCase{
		auditRepo: auditRepo,
		leaseRepo: leaseRepo,
		exporter:  exporter,
		notifier:  notifier,
		now:       time.Now,
	}
}

// GetChangeLog returns the flat audit feed for a lease, newest first
func (uc *AuditUseCase) GetChangeLog(ctx context.Context, leaseID int64) ([]domain.ChangeRecord, error) {
	if _, err := uc.findLease(ctx, leaseID); err != nil {
		return nil, err
	}

	records, err := uc.auditRepo.ListByLease(ctx, leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}

	return records, nil
}

// GetReviewTable loads the feed, groups it into transactions and builds the
// review view model with visibility already evaluated for query. The whole
// pipeline runs to completion before the table is returned; a load failure
// returns an error and no table.
func (uc *AuditUseCase) GetReviewTable(ctx context.Context, leaseID int64, query string) (*ReviewTable, error) {
	records, err := uc.GetChangeLog(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	table := BuildReviewTable(domain.GroupChanges(records))
	table.Search(query)
	return table, nil
}

// RecordLeaseChanges writes one audit record per field whose value differs
// between Old and New. All records of one call share a single timestamp,
// user and action, which is what keeps a transaction's records adjacent in
// the descending feed. Returns the number of records written.
func (uc *AuditUseCase) RecordLeaseChanges(ctx context.Context, req RecordChangesRequest) (int, error) {
	if req.LeaseID == 0 {
		return 0, fmt.Errorf("lease ID is required")
	}
	if req.Username == "" {
		return 0, fmt.Errorf("username is required")
	}

	ts := uc.now().UTC().Format(changeTimestampLayout)

	fields := make([]string, 0, len(req.New))
	for name := range req.New {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var records []domain.ChangeRecord
	for _, name := range fields {
		oldValue := req.Old[name]
		newValue := req.New[name]
		if valueEqual(oldValue, newValue) {
			continue
		}
		records = append(records, domain.ChangeRecord{
			LeaseID:         req.LeaseID,
			ChangedByUserID: req.UserID,
			ChangedBy:       req.Username,
			ChangeTimestamp: ts,
			FieldName:       name,
			OldValue:        oldValue,
			NewValue:        newValue,
			Action:          req.Action,
		})
	}

	if len(records) == 0 {
		return 0, nil
	}

	if err := uc.auditRepo.Append(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to append audit records: %w", err)
	}

	return len(records), nil
}

// ExportReview renders the currently visible summary rows as an attachment
// and mails it. One-shot: a failed send is reported, never retried.
func (uc *AuditUseCase) ExportReview(ctx context.Context, req ExportReviewRequest) error {
	if len(req.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	table, err := uc.GetReviewTable(ctx, req.LeaseID, req.Query)
	if err != nil {
		return err
	}

	attachment, err := uc.exporter.Render(table.ExportRows())
	if err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}

	mail := ports.Mail{
		To:         req.To,
		Subject:    req.Subject,
		Body:       req.Body,
		Attachment: &attachment,
	}
	if err := uc.notifier.SendMail(ctx, mail); err != nil {
		return fmt.Errorf("failed to send export mail: %w", err)
	}

	return nil
}

func (uc *AuditUseCase) findLease(ctx context.Context, leaseID int64) (*domain.Lease, error) {
	lease, err := uc.leaseRepo.FindByID(ctx, leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find lease: %w", err)
	}
	if lease == nil {
		return nil, domain.ErrLeaseNotFound
	}
	return lease, nil
}

func valueEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
