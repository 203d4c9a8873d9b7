package domain

import "time"

// LeaseStatus represents the approval state of a lease
type LeaseStatus string

const (
	LeaseStatusDraft     LeaseStatus = "draft"
	LeaseStatusSubmitted LeaseStatus = "submitted"
	LeaseStatusApproved  LeaseStatus = "approved"
	LeaseStatusRejected  LeaseStatus = "rejected"
)

// Lease is the slice of a lease agreement the audit trail needs: enough to
// confirm the lease exists and to label its feed.
type Lease struct {
	ID             int64       `json:"lease_id"`
	AgreementTitle string      `json:"agreement_title"`
	Status         LeaseStatus `json:"status"`
	EnteredBy      string      `json:"entered_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Lease errors
var (
	ErrLeaseNotFound = NewDomainError("lease not found")
)
