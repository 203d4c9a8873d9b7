package ports

import (
	"context"

	"github.com/leasedesk/leasedesk/internal/domain"
)

// AuditLogRepository defines the interface for audit record persistence
type AuditLogRepository interface {
	// Append stores a batch of change records atomically
	Append(ctx context.Context, records []domain.ChangeRecord) error

	// ListByLease retrieves all change records for a lease ordered by
	// change_timestamp descending. The grouper depends on this ordering.
	ListByLease(ctx context.Context, leaseID int64) ([]domain.ChangeRecord, error)
}

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	// FindByID retrieves a lease by its ID
	FindByID(ctx context.Context, id int64) (*domain.Lease, error)

	// FieldValues retrieves a lease row as a column name to value map, the
	// shape the change recorder diffs against
	FieldValues(ctx context.Context, id int64) (map[string]*string, error)

	// Update persists the given field values for a lease
	Update(ctx context.Context, id int64, fields map[string]*string) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByUsername retrieves a user by username
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// Create saves a new user
	Create(ctx context.Context, user *domain.User) error
}
