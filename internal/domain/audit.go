package domain

// ChangeAction represents the kind of edit that produced an audit record
type ChangeAction string

const (
	ActionCreate ChangeAction = "CREATE"
	ActionUpdate ChangeAction = "UPDATE"
	ActionDelete ChangeAction = "DELETE"
)

// ChangeRecord is one field-level audit record as stored in lease_data_audit.
// Records are handed to the grouper ordered by change_timestamp descending;
// the grouper relies on that ordering and never re-sorts.
type ChangeRecord struct {
	AuditID         int64        `json:"audit_id"`
	LeaseID         int64        `json:"lease_id"`
	ChangedByUserID int64        `json:"changed_by_user_id"`
	ChangedBy       string       `json:"changed_by_username"`
	ChangeTimestamp string       `json:"change_timestamp"`
	FieldName       string       `json:"field_name"`
	OldValue        *string      `json:"old_value"`
	NewValue        *string      `json:"new_value"`
	Action          ChangeAction `json:"action"`
}

// FieldChange is a single old→new pair belonging to exactly one transaction.
// Values are carried through unmodified; formatting happens at render time.
type FieldChange struct {
	FieldName string  `json:"field_name"`
	OldValue  *string `json:"old_value"`
	NewValue  *string `json:"new_value"`
}

// Transaction is one logical edit: the run of adjacent records sharing
// timestamp, lease, user and action.
type Transaction struct {
	Timestamp string        `json:"timestamp"`
	LeaseID   int64         `json:"lease_id"`
	User      string        `json:"user"`
	Action    ChangeAction  `json:"action"`
	Changes   []FieldChange `json:"changes"`
}

// changeKey is the composite key used to test adjacency during grouping
type changeKey struct {
	timestamp string
	leaseID   int64
	user      string
	action    ChangeAction
}

func (r ChangeRecord) key() changeKey {
	return changeKey{
		timestamp: r.ChangeTimestamp,
		leaseID:   r.LeaseID,
		user:      r.ChangedBy,
		action:    r.Action,
	}
}

// GroupChanges collapses a flat, timestamp-descending sequence of audit
// records into transactions. Grouping is purely adjacency-based: a new
// transaction opens whenever the composite key differs from the previous
// record's. Two records with an identical key separated by a differing-key
// record belong to two distinct transactions. This relies on the source
// writing all fields of one edit with one timestamp, so a transaction's
// records are already adjacent in the feed; it must not be replaced by a
// global group-by.
func GroupChanges(records []ChangeRecord) []Transaction {
	groups := make([]Transaction, 0, len(records))
	var current changeKey

	for _, r := range records {
		k := r.key()
		if len(groups) == 0 || k != current {
			groups = append(groups, Transaction{
				Timestamp: r.ChangeTimestamp,
				LeaseID:   r.LeaseID,
				User:      r.ChangedBy,
				Action:    r.Action,
			})
			current = k
		}
		last := &groups[len(groups)-1]
		last.Changes = append(last.Changes, FieldChange{
			FieldName: r.FieldName,
			OldValue:  r.OldValue,
			NewValue:  r.NewValue,
		})
	}

	return groups
}

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}
