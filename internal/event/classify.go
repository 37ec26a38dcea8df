package event

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	pathSeparator = "/"
	inventoryDir  = "inventory"

	ReasonFolder       = "represents a folder"
	ReasonPathMismatch = "does not match an item in an inventory directory"
)

// Classify splits raw change records into keys excluded from processing and
// keys eligible for it. Pure function, no side effects; ordering of the input
// does not affect which bucket a record lands in.
//
// Rules, per record in order:
//  1. keys ending in the path separator are folders
//  2. keys whose second-to-last segment is not "inventory" are out of scope
//  3. everything else is decoded ("+" as space, then percent-decoding) and
//     emitted as eligible
func Classify(records []ChangeRecord) (Classification, error) {
	out := Classification{
		FilteredKeys:  []FilteredKey{},
		KeysToProcess: []KeyToProcess{},
	}

	for _, rec := range records {
		rawKey := rec.ObjectKey

		if strings.HasSuffix(rawKey, pathSeparator) {
			out.FilteredKeys = append(out.FilteredKeys, FilteredKey{
				Key:    rawKey,
				Reason: ReasonFolder,
			})
			continue
		}

		segments := strings.Split(rawKey, pathSeparator)
		if len(segments) < 2 || segments[len(segments)-2] != inventoryDir {
			out.FilteredKeys = append(out.FilteredKeys, FilteredKey{
				Key:    rawKey,
				Reason: ReasonPathMismatch,
			})
			continue
		}

		decoded, err := url.QueryUnescape(rawKey)
		if err != nil {
			return Classification{}, fmt.Errorf("decode object key %q failed: %w", rawKey, err)
		}

		out.KeysToProcess = append(out.KeysToProcess, KeyToProcess{
			BucketName: rec.BucketName,
			Key:        decoded,
		})
	}

	return out, nil
}
