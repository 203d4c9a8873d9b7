package usecase

import (
	"strings"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/ports"
)

// ReviewTable holds the on-screen state of the audit review view: the built
// summary/detail rows plus the visibility flags driven by toggling and
// searching. It is owned by a single request or test; no locking.
type ReviewTable struct {
	Summaries []SummaryRow `json:"summaries"`
	Details   []DetailView `json:"details"`

	// Empty is the no-logs indicator. It is computed once from the
	// unfiltered grouping at build time; a search that matches nothing
	// does not set it.
	Empty bool `json:"empty"`

	// Query is the filter last applied via Search
	Query string `json:"query"`
}

// BuildReviewTable builds the full view model from grouped transactions.
// Grouping and row construction complete before the table is handed out, so
// partial state is never observable.
func BuildReviewTable(groups []domain.Transaction) *ReviewTable {
	summaries, details := buildRows(groups)
	return &ReviewTable{
		Summaries: summaries,
		Details:   details,
		Empty:     len(groups) == 0,
	}
}

// Toggle flips the expanded state of the detail block at index i and shows
// or hides it accordingly. Toggling twice restores the original state.
// Out-of-range indexes are ignored.
func (t *ReviewTable) Toggle(i int) {
	if i < 0 || i >= len(t.Details) {
		return
	}
	d := &t.Details[i]
	d.Expanded = !d.Expanded
	d.Visible = d.Expanded
}

// Search re-evaluates row visibility against query, independent of any
// previous query. A summary row stays visible when the query is a
// case-insensitive substring of its displayed lease ID or user. Hiding a
// row forces its detail block hidden but leaves Expanded untouched;
// re-passing the filter re-shows only the summary row. The detail block
// stays hidden until the next Toggle, which starts from the latent
// Expanded value. Search never re-shows a detail block.
func (t *ReviewTable) Search(query string) {
	t.Query = query
	q := strings.ToLower(query)

	for i := range t.Summaries {
		s := &t.Summaries[i]
		match := q == "" ||
			strings.Contains(strings.ToLower(s.LeaseID), q) ||
			strings.Contains(strings.ToLower(s.User), q)
		s.Visible = match
		if !match {
			t.Details[i].Visible = false
		}
	}
}

// VisibleSummaries returns the summary rows currently shown, in order
func (t *ReviewTable) VisibleSummaries() []SummaryRow {
	rows := make([]SummaryRow, 0, len(t.Summaries))
	for _, s := range t.Summaries {
		if s.Visible {
			rows = append(rows, s)
		}
	}
	return rows
}

// ExportRows exposes the visible summary rows in display column order for
// the export collaborator
func (t *ReviewTable) ExportRows() []ports.ExportRow {
	visible := t.VisibleSummaries()
	rows := make([]ports.ExportRow, 0, len(visible))
	for _, s := range visible {
		rows = append(rows, ports.ExportRow{
			Timestamp: s.Timestamp,
			LeaseID:   s.LeaseID,
			User:      s.User,
			Action:    s.Action,
			Summary:   s.Summary,
		})
	}
	return rows
}
