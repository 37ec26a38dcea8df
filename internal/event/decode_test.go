package event

import "testing"

const validNotification = `{
  "Records": [
    {
      "s3": {
        "bucket": {"name": "feeds"},
        "object": {"key": "trading_partners/shop_1/inventory/feed.csv"}
      }
    }
  ]
}`

func TestDecodeNotification_Valid(t *testing.T) {
	records, err := DecodeNotification([]byte(validNotification))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].BucketName != "feeds" {
		t.Fatalf("unexpected bucket: %q", records[0].BucketName)
	}
	if records[0].ObjectKey != "trading_partners/shop_1/inventory/feed.csv" {
		t.Fatalf("unexpected key: %q", records[0].ObjectKey)
	}
}

func TestDecodeNotification_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{`},
		{"missing records", `{"foo": 1}`},
		{"records not array", `{"Records": {}}`},
		{"record without s3", `{"Records": [{"eventName": "put"}]}`},
		{"bucket without name", `{"Records": [{"s3": {"bucket": {}, "object": {"key": "a"}}}]}`},
		{"empty object key", `{"Records": [{"s3": {"bucket": {"name": "b"}, "object": {"key": ""}}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeNotification([]byte(tt.raw)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDecodeNotification_EmptyBatch(t *testing.T) {
	records, err := DecodeNotification([]byte(`{"Records": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
