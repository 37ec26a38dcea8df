package feed

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
)

// Record is one parsed feed row keyed by normalized column name. Columns
// beyond the required set are preserved and forwarded as-is.
type Record map[string]string

func (r Record) SKU() string      { return r["sku"] }
func (r Record) Quantity() string { return r["quantity"] }
func (r Record) Price() string    { return r["price"] }

// Runs of spaces and slashes in a header collapse into one underscore.
var headerSeparators = regexp.MustCompile(`[ /]+`)

// NormalizeHeader lower-cases a column header and collapses space/slash runs
// into a single underscore, so "Unit Price" and "unit/price" both become
// "unit_price".
func NormalizeHeader(h string) string {
	return headerSeparators.ReplaceAllString(strings.ToLower(h), "_")
}

// Convert parses feed text into records. The first row is the header; each
// subsequent row becomes one Record under the normalized header names.
func Convert(text string) ([]Record, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse feed failed: %w", err)
	}
	if len(rows) == 0 {
		return []Record{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(strings.TrimSpace(h))
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(headers))
		for i, v := range row {
			if i >= len(headers) {
				break
			}
			rec[headers[i]] = v
		}
		records = append(records, rec)
	}

	return records, nil
}
