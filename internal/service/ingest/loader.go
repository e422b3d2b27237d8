package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ougirez/rankuni/internal/domain/dto"
)

// LoadRecords reads a ranking CSV and returns its header row plus one
// RawRecord per data row, in file order. Quoting is relaxed and rows are kept
// even when their column count disagrees with the header; downstream
// resolution decides what is usable.
func LoadRecords(path string) ([]string, []dto.RawRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	content = repairQuotes(content)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]dto.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		rec := make(dto.RawRecord, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, rec)
	}

	return headers, records, nil
}

// repairQuotes rewrites double quotes that are neither opening a field
// (preceded by start-of-line or a comma) nor closing one (followed by a
// comma or end-of-line) into apostrophes. Ranking exports routinely carry
// unescaped quotes inside free-text names, which breaks strict CSV quoting.
// The rewrite never adds or removes bytes, so record boundaries are intact.
func repairQuotes(content []byte) []byte {
	out := make([]byte, len(content))
	copy(out, content)

	for i, c := range out {
		if c != '"' {
			continue
		}

		opening := i == 0 || out[i-1] == ',' || out[i-1] == '\n'
		closing := i == len(out)-1 || out[i+1] == ',' || out[i+1] == '\r' || out[i+1] == '\n'

		if !opening && !closing {
			out[i] = '\''
		}
	}

	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
