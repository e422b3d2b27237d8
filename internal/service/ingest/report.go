package ingest

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Report is the per-run summary: how many rows the file produced, how many
// survived into ranking entries, and why the rest were skipped.
type Report struct {
	Source               string `json:"source"`
	Year                 int    `json:"year"`
	Parsed               int    `json:"parsed"`
	Created              int    `json:"created"`
	Matched              int    `json:"matched"`
	SkippedYearMismatch  int    `json:"skipped_year_mismatch"`
	SkippedUnparseable   int    `json:"skipped_unparseable"`
	SkippedWriteConflict int    `json:"skipped_write_conflict"`

	// LowMatch flags a degraded run: the batch completed but too few rows
	// linked to registry schools.
	LowMatch bool `json:"low_match"`
}

// WriteReport dumps the report as JSON for whatever scheduled the run.
func WriteReport(path string, report *Report) error {
	data, err := sonic.ConfigDefault.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
