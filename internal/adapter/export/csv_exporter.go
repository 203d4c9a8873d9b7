package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/leasedesk/leasedesk/internal/ports"
)

// csvColumns is the fixed export column order. Consumers scrape by position,
// so it must stay in sync with ports.ExportRow.
var csvColumns = []string{"Timestamp", "Lease ID", "User", "Action", "Summary"}

// CSVExporter serializes rendered summary rows into a CSV attachment
type CSVExporter struct {
	now func() time.Time
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{now: time.Now}
}

// Render writes the rows, header first, into a CSV attachment
func (e *CSVExporter) Render(rows []ports.ExportRow) (ports.Attachment, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvColumns); err != nil {
		return ports.Attachment{}, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.Timestamp, row.LeaseID, row.User, row.Action, row.Summary}
		if err := w.Write(record); err != nil {
			return ports.Attachment{}, fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return ports.Attachment{}, fmt.Errorf("failed to flush csv: %w", err)
	}

	return ports.Attachment{
		Filename:    fmt.Sprintf("audit-log-%s.csv", e.now().UTC().Format("20060102-150405")),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}
