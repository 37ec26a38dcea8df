package feed

import "strings"

// RequiredAttributes are the columns every record must carry to be persisted
// and forwarded. Presence only; values are not type-checked.
var RequiredAttributes = []string{"sku", "quantity", "price"}

// SkippedRecord is a record excluded for missing required attributes. It is
// never persisted or forwarded, only reported.
type SkippedRecord struct {
	Index   int      `json:"index"`
	Missing []string `json:"missing"`
	Record  Record   `json:"record"`
}

// ValidateRequired splits records into those carrying every required
// attribute and those missing at least one.
func ValidateRequired(records []Record) (valid []Record, skipped []SkippedRecord) {
	valid = make([]Record, 0, len(records))

	for i, rec := range records {
		var missing []string
		for _, attr := range RequiredAttributes {
			if strings.TrimSpace(rec[attr]) == "" {
				missing = append(missing, attr)
			}
		}

		if len(missing) > 0 {
			skipped = append(skipped, SkippedRecord{
				Index:   i,
				Missing: missing,
				Record:  rec,
			})
			continue
		}

		valid = append(valid, rec)
	}

	return valid, skipped
}
