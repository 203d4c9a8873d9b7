package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/ports"
)

// PostgresAuditLogRepository implements AuditLogRepository using PostgreSQL
type PostgresAuditLogRepository struct {
	db *sql.DB
}

// NewPostgresAuditLogRepository creates a new PostgreSQL audit log repository
func NewPostgresAuditLogRepository(db *sql.DB) ports.AuditLogRepository {
	return &PostgresAuditLogRepository{db: db}
}

// Append stores a batch of change records in one transaction so a partially
// written edit is never visible in the feed
func (r *PostgresAuditLogRepository) Append(ctx context.Context, records []domain.ChangeRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO lease_data_audit
			(lease_id, changed_by_user_id, changed_by_username, change_timestamp, field_name, old_value, new_value, action)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, rec := range records {
		_, err := tx.ExecContext(ctx, query,
			rec.LeaseID,
			rec.ChangedByUserID,
			rec.ChangedBy,
			rec.ChangeTimestamp,
			rec.FieldName,
			rec.OldValue,
			rec.NewValue,
			string(rec.Action),
		)
		if err != nil {
			return fmt.Errorf("failed to insert audit record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit records: %w", err)
	}

	return nil
}

// ListByLease retrieves the full audit feed for a lease, newest first.
// audit_id breaks ties so records written together stay in insert order,
// keeping each edit's fields adjacent in the feed.
func (r *PostgresAuditLogRepository) ListByLease(ctx context.Context, leaseID int64) ([]domain.ChangeRecord, error) {
	query := `
		SELECT audit_id, lease_id, changed_by_user_id, changed_by_username,
		       change_timestamp, field_name, old_value, new_value, action
		FROM lease_data_audit
		WHERE lease_id = $1
		ORDER BY change_timestamp DESC, audit_id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []domain.ChangeRecord

	for rows.Next() {
		var rec domain.ChangeRecord
		var action string

		err := rows.Scan(
			&rec.AuditID,
			&rec.LeaseID,
			&rec.ChangedByUserID,
			&rec.ChangedBy,
			&rec.ChangeTimestamp,
			&rec.FieldName,
			&rec.OldValue,
			&rec.NewValue,
			&action,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}

		rec.Action = domain.ChangeAction(action)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}

	return records, nil
}
