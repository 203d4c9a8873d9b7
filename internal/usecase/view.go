package usecase

import (
	"fmt"
	"strconv"

	"github.com/leasedesk/leasedesk/internal/domain"
)

// SummaryRow is the one-line, collapsed representation of a transaction.
// All fields are display text; search matches against LeaseID and User
// exactly as rendered.
type SummaryRow struct {
	GroupIndex  int    `json:"group_index"`
	Timestamp   string `json:"timestamp"`
	LeaseID     string `json:"lease_id"`
	User        string `json:"user"`
	Action      string `json:"action"`
	ChangeCount int    `json:"change_count"`
	Summary     string `json:"summary"`
	Visible     bool   `json:"visible"`
}

// DetailRow is one formatted field change inside a detail block
type DetailRow struct {
	FieldName string `json:"field_name"`
	OldValue  string `json:"old_value"`
	NewValue  string `json:"new_value"`
}

// DetailView is the expandable per-field breakdown of a transaction.
// Expanded is the latent toggle state; Visible is what is actually shown,
// which search may force off without touching Expanded.
type DetailView struct {
	GroupIndex int         `json:"group_index"`
	Rows       []DetailRow `json:"rows"`
	Expanded   bool        `json:"expanded"`
	Visible    bool        `json:"visible"`
}

// ChangeCountLabel renders the human change-count label for a summary row
func ChangeCountLabel(n int) string {
	if n == 1 {
		return "1 field modified"
	}
	return fmt.Sprintf("%d fields modified", n)
}

// buildRows turns grouped transactions into parallel summary/detail
// sequences joined by GroupIndex. Every summary starts visible and every
// detail starts collapsed. No filtering and no I/O happens here.
func buildRows(groups []domain.Transaction) ([]SummaryRow, []DetailView) {
	summaries := make([]SummaryRow, 0, len(groups))
	details := make([]DetailView, 0, len(groups))

	for i, g := range groups {
		summaries = append(summaries, SummaryRow{
			GroupIndex:  i,
			Timestamp:   g.Timestamp,
			LeaseID:     strconv.FormatInt(g.LeaseID, 10),
			User:        g.User,
			Action:      string(g.Action),
			ChangeCount: len(g.Changes),
			Summary:     ChangeCountLabel(len(g.Changes)),
			Visible:     true,
		})

		rows := make([]DetailRow, 0, len(g.Changes))
		for _, c := range g.Changes {
			rows = append(rows, DetailRow{
				FieldName: domain.DisplayFieldName(c.FieldName),
				OldValue:  domain.FormatValue(c.OldValue),
				NewValue:  domain.FormatValue(c.NewValue),
			})
		}
		details = append(details, DetailView{
			GroupIndex: i,
			Rows:       rows,
		})
	}

	return summaries, details
}
