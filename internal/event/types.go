package event

// ChangeRecord is one entry of a storage-change notification. ObjectKey is
// raw as delivered by the trigger source: UTF-8 with "+" for space and the
// rest percent-encoded.
type ChangeRecord struct {
	BucketName string `json:"bucket_name"`
	ObjectKey  string `json:"object_key"`
}

// FilteredKey is a change record excluded from processing, with the reason it
// was excluded. Terminal; only ever reported.
type FilteredKey struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// KeyToProcess is an eligible unit of work. Key is fully decoded.
type KeyToProcess struct {
	BucketName string `json:"bucket_name"`
	Key        string `json:"key"`
}

type Classification struct {
	FilteredKeys  []FilteredKey
	KeysToProcess []KeyToProcess
}
