package track

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

type ErrorInfo struct {
	Message string `json:"message"`
}

// FailureResult is the structured object callers receive when an invocation
// fails. It is returned, never thrown.
type FailureResult struct {
	ExecutionID string    `json:"execution_id"`
	Status      string    `json:"status"`
	Error       ErrorInfo `json:"error"`
}

type StartResult struct {
	ExecutionID string

	// Retried is set when a record for this execution id already existed,
	// meaning the same logical invocation was delivered before.
	Retried bool
}

type failureRecord struct {
	ExecutionID string    `json:"execution_id"`
	Function    string    `json:"function"`
	FailedAt    time.Time `json:"failed_at"`
	Error       ErrorInfo `json:"error"`
}

// Tracker records execution state in durable storage so re-delivered
// invocations converge on the same identifier. Created at invocation start,
// deleted on success, overwritten with failure detail on failure.
type Tracker struct {
	Store        BlobStore
	FunctionName string
	Logger       *slog.Logger
}

// ExecutionID derives the deterministic identifier for one logical
// invocation: a SHA-256 digest over the function identity and the
// canonicalized input payload. Identical redeliveries always map to the same
// id.
func ExecutionID(functionName string, input []byte) string {
	canonical := canonicalize(input)

	h := sha256.New()
	h.Write([]byte(functionName))
	h.Write([]byte{0})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalize strips insignificant whitespace from a JSON payload so
// re-serialized deliveries of the same logical input hash identically.
// Non-JSON input hashes as-is.
func canonicalize(input []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, input); err != nil {
		return input
	}
	return buf.Bytes()
}

// Start persists the invocation input under the execution's path. This must
// complete before any processing begins; a storage fault here is fatal to the
// invocation.
func (t Tracker) Start(ctx context.Context, input []byte) (StartResult, error) {
	id := ExecutionID(t.FunctionName, input)
	res := StartResult{ExecutionID: id}

	if _, ok, err := t.Store.Get(ctx, inputPath(t.FunctionName, id)); err == nil && ok {
		res.Retried = true
	} else if _, ok, err := t.Store.Get(ctx, failurePath(t.FunctionName, id)); err == nil && ok {
		res.Retried = true
	}

	if err := t.Store.Put(ctx, inputPath(t.FunctionName, id), input); err != nil {
		return res, fmt.Errorf("record execution input failed: %w", err)
	}
	return res, nil
}

// FinalizeSuccess clears the input record and any failure record left by an
// earlier delivery of this execution, so only in-flight or failed executions
// remain visible in the tracking store.
func (t Tracker) FinalizeSuccess(ctx context.Context, executionID string) error {
	if err := t.Store.Delete(ctx, inputPath(t.FunctionName, executionID)); err != nil {
		return fmt.Errorf("clear execution input failed: %w", err)
	}
	if err := t.Store.Delete(ctx, failurePath(t.FunctionName, executionID)); err != nil {
		return fmt.Errorf("clear prior failure failed: %w", err)
	}
	return nil
}

// FinalizeFailure records the failure detail under the execution's path,
// leaving the input record in place, and returns the structured failure
// result. If the identical failure is already recorded for this execution id
// the write is suppressed: a redelivery loop replaying the same failure must
// not turn into a write storm.
func (t Tracker) FinalizeFailure(ctx context.Context, executionID string, cause error) FailureResult {
	detail := ErrorInfo{Message: cause.Error()}
	result := FailureResult{
		ExecutionID: executionID,
		Status:      "failed",
		Error:       detail,
	}

	path := failurePath(t.FunctionName, executionID)

	if existing, ok, err := t.Store.Get(ctx, path); err == nil && ok {
		var prior failureRecord
		if json.Unmarshal(existing, &prior) == nil && prior.Error.Message == detail.Message {
			return result
		}
	}

	body, err := json.Marshal(failureRecord{
		ExecutionID: executionID,
		Function:    t.FunctionName,
		FailedAt:    time.Now().UTC(),
		Error:       detail,
	})
	if err == nil {
		err = t.Store.Put(ctx, path, body)
	}
	if err != nil {
		t.logger().Error("record execution failure failed",
			slog.String("execution_id", executionID),
			slog.String("error", err.Error()))
	}

	return result
}

func (t Tracker) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}
