package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leasedesk/leasedesk/internal/ports"
)

func TestCSVExporter_Render(t *testing.T) {
	e := NewCSVExporter()
	e.now = func() time.Time {
		return time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	}

	rows := []ports.ExportRow{
		{Timestamp: "2026-08-20 10:00:00", LeaseID: "100", User: "alice", Action: "UPDATE", Summary: "2 fields modified"},
		{Timestamp: "2026-08-19 09:00:00", LeaseID: "205", User: "bob", Action: "CREATE", Summary: "1 field modified"},
	}

	attachment, err := e.Render(rows)

	assert.NoError(t, err)
	assert.Equal(t, "audit-log-20260820-103000.csv", attachment.Filename)
	assert.Equal(t, "text/csv", attachment.ContentType)

	records, err := csv.NewReader(bytes.NewReader(attachment.Data)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, []string{"Timestamp", "Lease ID", "User", "Action", "Summary"}, records[0])
	assert.Equal(t, []string{"2026-08-20 10:00:00", "100", "alice", "UPDATE", "2 fields modified"}, records[1])
	assert.Equal(t, []string{"2026-08-19 09:00:00", "205", "bob", "CREATE", "1 field modified"}, records[2])
}

func TestCSVExporter_Render_NoRowsStillHasHeader(t *testing.T) {
	e := NewCSVExporter()

	attachment, err := e.Render(nil)

	assert.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(attachment.Data)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCSVExporter_Render_QuotesEmbeddedDelimiters(t *testing.T) {
	e := NewCSVExporter()

	attachment, err := e.Render([]ports.ExportRow{
		{Timestamp: "t", LeaseID: "1", User: `o"connor, amy`, Action: "UPDATE", Summary: "1 field modified"},
	})

	assert.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(attachment.Data)).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, `o"connor, amy`, records[1][2])
}
