package event

import (
	"testing"
)

func TestClassify_FolderKeys(t *testing.T) {
	cls, err := Classify([]ChangeRecord{
		{BucketName: "feeds", ObjectKey: "trading_partners/shop_1/inventory/"},
		{BucketName: "feeds", ObjectKey: "trading_partners/"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cls.KeysToProcess) != 0 {
		t.Fatalf("expected no eligible keys, got %#v", cls.KeysToProcess)
	}
	if len(cls.FilteredKeys) != 2 {
		t.Fatalf("expected 2 filtered keys, got %#v", cls.FilteredKeys)
	}
	for _, fk := range cls.FilteredKeys {
		if fk.Reason != ReasonFolder {
			t.Fatalf("expected folder reason, got %q", fk.Reason)
		}
	}
}

func TestClassify_PathMismatch(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"no separator", "feed.csv"},
		{"wrong directory", "other/shop_1/x.csv"},
		{"inventory not second-to-last", "trading_partners/inventory/shop_1/feed.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := Classify([]ChangeRecord{{BucketName: "feeds", ObjectKey: tt.key}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(cls.FilteredKeys) != 1 {
				t.Fatalf("expected filtered, got %#v", cls)
			}
			if cls.FilteredKeys[0].Reason != ReasonPathMismatch {
				t.Fatalf("expected mismatch reason, got %q", cls.FilteredKeys[0].Reason)
			}
		})
	}
}

func TestClassify_EligibleKeyIsDecoded(t *testing.T) {
	cls, err := Classify([]ChangeRecord{
		{BucketName: "feeds", ObjectKey: "trading_partners/shop+1/inventory/feed%202.csv"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cls.KeysToProcess) != 1 {
		t.Fatalf("expected 1 eligible key, got %#v", cls)
	}

	k := cls.KeysToProcess[0]
	if k.BucketName != "feeds" {
		t.Fatalf("expected bucket feeds, got %q", k.BucketName)
	}
	if k.Key != "trading_partners/shop 1/inventory/feed 2.csv" {
		t.Fatalf("unexpected decoded key: %q", k.Key)
	}
}

func TestClassify_DecodeIdempotentOnPlainKeys(t *testing.T) {
	key := "trading_partners/shop_1/inventory/feed.csv"

	cls, err := Classify([]ChangeRecord{{BucketName: "feeds", ObjectKey: key}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cls.KeysToProcess[0].Key != key {
		t.Fatalf("plain key changed by decoding: %q", cls.KeysToProcess[0].Key)
	}
}

func TestClassify_MalformedEncodingIsAnError(t *testing.T) {
	_, err := Classify([]ChangeRecord{
		{BucketName: "feeds", ObjectKey: "trading_partners/shop_1/inventory/feed%zz.csv"},
	})
	if err == nil {
		t.Fatalf("expected error for malformed percent-encoding")
	}
}

func TestClassify_MixedBatch(t *testing.T) {
	cls, err := Classify([]ChangeRecord{
		{BucketName: "feeds", ObjectKey: "trading_partners/shop_1/inventory/"},
		{BucketName: "feeds", ObjectKey: "other/shop_1/x.csv"},
		{BucketName: "feeds", ObjectKey: "trading_partners/shop_1/inventory/feed.csv"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cls.FilteredKeys) != 2 || len(cls.KeysToProcess) != 1 {
		t.Fatalf("unexpected classification: %#v", cls)
	}
	if cls.FilteredKeys[0].Reason != ReasonFolder {
		t.Fatalf("expected folder reason first, got %q", cls.FilteredKeys[0].Reason)
	}
	if cls.FilteredKeys[1].Reason != ReasonPathMismatch {
		t.Fatalf("expected mismatch reason second, got %q", cls.FilteredKeys[1].Reason)
	}
}
