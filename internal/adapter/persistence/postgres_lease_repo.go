package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/ports"
)

// PostgresLeaseRepository implements LeaseRepository using PostgreSQL
type PostgresLeaseRepository struct {
	db *sql.DB
}

// NewPostgresLeaseRepository creates a new PostgreSQL lease repository
func NewPostgresLeaseRepository(db *sql.DB) ports.LeaseRepository {
	return &PostgresLeaseRepository{db: db}
}

// FindByID retrieves a lease by its ID
func (r *PostgresLeaseRepository) FindByID(ctx context.Context, id int64) (*domain.Lease, error) {
	query := `
		SELECT lease_id, agreement_title, status, entered_by, created_at, updated_at
		FROM leases
		WHERE lease_id = $1
	`

	var lease domain.Lease
	var status string
	var enteredBy sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lease.ID,
		&lease.AgreementTitle,
		&status,
		&enteredBy,
		&lease.CreatedAt,
		&lease.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find lease: %w", err)
	}

	lease.Status = domain.LeaseStatus(status)
	lease.EnteredBy = enteredBy.String
	return &lease, nil
}

// FieldValues retrieves a lease row as a column name to value map, the
// shape the audit diff works on. NULL columns map to nil; everything else
// is its string form.
func (r *PostgresLeaseRepository) FieldValues(ctx context.Context, id int64) (map[string]*string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT * FROM leases WHERE lease_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query lease: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read lease: %w", err)
		}
		return nil, nil
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	values := make([]interface{}, len(columns))
	for i := range values {
		values[i] = new(interface{})
	}
	if err := rows.Scan(values...); err != nil {
		return nil, fmt.Errorf("failed to scan lease: %w", err)
	}

	fields := make(map[string]*string, len(columns))
	for i, name := range columns {
		v := *(values[i].(*interface{}))
		if v == nil {
			fields[name] = nil
			continue
		}
		var s string
		switch tv := v.(type) {
		case []byte:
			s = string(tv)
		default:
			s = fmt.Sprint(tv)
		}
		fields[name] = &s
	}

	return fields, nil
}

// Update persists the given field values for a lease. Column names come
// from the caller's diff, never from request input directly; they are still
// quoted and bound positionally.
func (r *PostgresLeaseRepository) Update(ctx context.Context, id int64, fields map[string]*string) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]interface{}, 0, len(names)+1)
	for i, name := range names {
		sets = append(sets, fmt.Sprintf("%q = $%d", name, i+1))
		args = append(args, fields[name])
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE leases SET %s WHERE lease_id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update lease: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrLeaseNotFound
	}

	return nil
}
