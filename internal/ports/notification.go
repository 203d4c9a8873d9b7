package ports

import "context"

// Attachment is a file attached to an outgoing mail
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mail is a single outgoing message
type Mail struct {
	To         []string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Notifier defines the interface for mail delivery. Sending is one-shot;
// callers do not retry.
type Notifier interface {
	SendMail(ctx context.Context, mail Mail) error
}

// ExportRow is one rendered summary row handed to the exporter. It is a
// flat view of the review table's visible rows in display column order:
// Timestamp, Lease ID, User, Action, Summary.
type ExportRow struct {
	Timestamp string
	LeaseID   string
	User      string
	Action    string
	Summary   string
}

// Exporter serializes rendered summary rows into a tabular attachment
type Exporter interface {
	Render(rows []ExportRow) (Attachment, error)
}
