package track

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func newTracker() (Tracker, *MemoryBlobStore) {
	store := NewMemoryBlobStore()
	return Tracker{Store: store, FunctionName: "stockpipe-handler"}, store
}

func TestExecutionID_Deterministic(t *testing.T) {
	input := []byte(`{"Records": []}`)

	a := ExecutionID("stockpipe-handler", input)
	b := ExecutionID("stockpipe-handler", input)
	if a != b {
		t.Fatalf("identical input produced different ids: %s vs %s", a, b)
	}

	if ExecutionID("other-fn", input) == a {
		t.Fatalf("different function identity produced same id")
	}
	if ExecutionID("stockpipe-handler", []byte(`{"Records": [1]}`)) == a {
		t.Fatalf("different input produced same id")
	}
}

func TestExecutionID_WhitespaceInsensitiveForJSON(t *testing.T) {
	a := ExecutionID("fn", []byte(`{"x": 1, "y": [2]}`))
	b := ExecutionID("fn", []byte("{\"x\":1,\"y\":[2]}"))
	if a != b {
		t.Fatalf("reserialized JSON produced different ids")
	}
}

func TestStart_RecordsInput(t *testing.T) {
	tracker, store := newTracker()
	input := []byte(`{"Records": []}`)

	res, err := tracker.Start(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Retried {
		t.Fatalf("fresh execution reported as retried")
	}

	body, ok, _ := store.Get(context.Background(), "stockpipe-handler/"+res.ExecutionID+"/input.json")
	if !ok {
		t.Fatalf("input record not written")
	}
	if string(body) != string(input) {
		t.Fatalf("input record altered: %s", body)
	}
}

func TestStart_DetectsRedelivery(t *testing.T) {
	tracker, _ := newTracker()
	input := []byte(`{"Records": []}`)
	ctx := context.Background()

	first, err := tracker.Start(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := tracker.Start(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ExecutionID != first.ExecutionID {
		t.Fatalf("redelivery mapped to a different execution id")
	}
	if !second.Retried {
		t.Fatalf("redelivery not detected")
	}
}

func TestStart_FailsWhenStorageUnavailable(t *testing.T) {
	tracker := Tracker{Store: failingBlobStore{}, FunctionName: "fn"}

	if _, err := tracker.Start(context.Background(), []byte(`{}`)); err == nil {
		t.Fatalf("expected error when input record cannot be written")
	}
}

func TestFinalizeSuccess_ClearsRecords(t *testing.T) {
	tracker, store := newTracker()
	ctx := context.Background()
	input := []byte(`{"Records": []}`)

	res, err := tracker.Start(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate a failed earlier delivery of the same execution.
	_ = tracker.FinalizeFailure(ctx, res.ExecutionID, errors.New("boom"))

	if err := tracker.FinalizeSuccess(ctx, res.ExecutionID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Len() != 0 {
		t.Fatalf("expected empty tracking store after success, %d blobs remain", store.Len())
	}
}

func TestFinalizeFailure_WritesRecordAndReturnsResult(t *testing.T) {
	tracker, store := newTracker()
	ctx := context.Background()

	res, _ := tracker.Start(ctx, []byte(`{"Records": []}`))

	failure := tracker.FinalizeFailure(ctx, res.ExecutionID, errors.New("2 error(s) while processing 3 key(s)"))
	if failure.Status != "failed" {
		t.Fatalf("unexpected status: %q", failure.Status)
	}
	if failure.Error.Message == "" {
		t.Fatalf("expected failure detail")
	}

	body, ok, _ := store.Get(ctx, "stockpipe-handler/"+res.ExecutionID+"/failure.json")
	if !ok {
		t.Fatalf("failure record not written")
	}

	var rec failureRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		t.Fatalf("failure record not JSON: %v", err)
	}
	if rec.Error.Message != failure.Error.Message {
		t.Fatalf("failure record detail mismatch: %#v", rec)
	}

	// Input record stays in place on failure.
	if _, ok, _ := store.Get(ctx, "stockpipe-handler/"+res.ExecutionID+"/input.json"); !ok {
		t.Fatalf("input record removed on failure")
	}
}

func TestFinalizeFailure_SuppressesIdenticalRewrite(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	res, _ := tracker.Start(ctx, []byte(`{"Records": []}`))
	_ = tracker.FinalizeFailure(ctx, res.ExecutionID, errors.New("boom"))

	// A redelivery loop replays the same failure; the write is suppressed but
	// callers still get a failure result.
	counting := &countingBlobStore{BlobStore: tracker.Store}
	looped := Tracker{Store: counting, FunctionName: tracker.FunctionName}

	failure := looped.FinalizeFailure(ctx, res.ExecutionID, errors.New("boom"))
	if failure.Status != "failed" {
		t.Fatalf("expected failure result, got %#v", failure)
	}
	if counting.puts != 0 {
		t.Fatalf("expected no failure rewrite, got %d put(s)", counting.puts)
	}

	// A different failure still gets recorded.
	_ = looped.FinalizeFailure(ctx, res.ExecutionID, errors.New("other fault"))
	if counting.puts != 1 {
		t.Fatalf("expected new failure written, got %d put(s)", counting.puts)
	}
}

type failingBlobStore struct{}

func (failingBlobStore) Put(context.Context, string, []byte) error { return errors.New("unavailable") }
func (failingBlobStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("unavailable")
}
func (failingBlobStore) Delete(context.Context, string) error { return errors.New("unavailable") }

type countingBlobStore struct {
	BlobStore
	puts int
}

func (c *countingBlobStore) Put(ctx context.Context, path string, body []byte) error {
	c.puts++
	return c.BlobStore.Put(ctx, path, body)
}
