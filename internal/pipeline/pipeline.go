package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/feedworks/stockpipe/internal/event"
	"github.com/feedworks/stockpipe/internal/feed"
	"github.com/feedworks/stockpipe/internal/objectstore"
	"github.com/feedworks/stockpipe/internal/progress"
	"github.com/feedworks/stockpipe/internal/stash"
	"github.com/feedworks/stockpipe/internal/track"
)

// Deliverer forwards one key's merged record set to the external consumer.
type Deliverer interface {
	Deliver(ctx context.Context, senderID string, records []feed.Record) error
}

// Pipeline wires the collaborators for one invocation host. Clients are
// long-lived and reused across keys; construction is owned by the caller.
type Pipeline struct {
	Objects  objectstore.Store
	Stash    stash.Store
	Keyspace string
	Webhook  Deliverer
	Tracker  track.Tracker
	Progress progress.Sink
}

// run carries per-invocation identity through the key loop.
type run struct {
	invocationID string
	executionID  string
}

// Run processes one notification batch and always returns a structured
// Result; faults never escape it. Keys are processed sequentially and in
// isolation: one key's failure is recorded and the loop moves on.
func (p *Pipeline) Run(ctx context.Context, raw []byte) Result {
	r := run{invocationID: uuid.NewString()}
	results := newProcessingResults()

	start, err := p.Tracker.Start(ctx, raw)
	r.executionID = start.ExecutionID
	if err != nil {
		return p.fail(ctx, r, results, err)
	}
	p.emit(ctx, r, "execution_started", "", "", map[string]any{
		"retried": start.Retried,
	})

	records, err := event.DecodeNotification(raw)
	if err != nil {
		return p.fail(ctx, r, results, err)
	}

	cls, err := event.Classify(records)
	if err != nil {
		return p.fail(ctx, r, results, err)
	}

	results.FilteredKeys = cls.FilteredKeys
	for _, fk := range cls.FilteredKeys {
		p.emit(ctx, r, "key_filtered", fk.Key, "", map[string]any{
			"reason": fk.Reason,
		})
	}

	for _, k := range cls.KeysToProcess {
		if err := p.processKey(ctx, r, k); err != nil {
			results.ProcessingErrors = append(results.ProcessingErrors, KeyError{
				Key:   k.Key,
				Error: err.Error(),
			})
			p.emit(ctx, r, "key_errored", k.Key, "", map[string]any{
				"error": err.Error(),
			})
			continue
		}
		results.ProcessedKeys = append(results.ProcessedKeys, k.Key)
	}

	if len(results.ProcessingErrors) > 0 {
		summary := fmt.Errorf("%d error(s) while processing %d key(s)",
			len(results.ProcessingErrors), len(cls.KeysToProcess))
		failure := p.Tracker.FinalizeFailure(ctx, r.executionID, summary)
		p.emit(ctx, r, "execution_failed", "", "", map[string]any{
			"error": summary.Error(),
		})
		return Result{ExecutionID: r.executionID, Results: results, Failure: &failure}
	}

	if err := p.Tracker.FinalizeSuccess(ctx, r.executionID); err != nil {
		// Stale tracking records are recoverable; the processing outcome
		// stands.
		p.emit(ctx, r, "tracking_cleanup_failed", "", "", map[string]any{
			"error": err.Error(),
		})
	}

	p.emit(ctx, r, "execution_succeeded", "", "", map[string]any{
		"processed": len(results.ProcessedKeys),
		"filtered":  len(results.FilteredKeys),
	})
	return Result{ExecutionID: r.executionID, Results: results}
}

func (p *Pipeline) fail(ctx context.Context, r run, results ProcessingResults, cause error) Result {
	failure := p.Tracker.FinalizeFailure(ctx, r.executionID, cause)
	p.emit(ctx, r, "execution_failed", "", "", map[string]any{
		"error": cause.Error(),
	})
	return Result{ExecutionID: r.executionID, Results: results, Failure: &failure}
}

func (p *Pipeline) emit(ctx context.Context, r run, stage string, key string, sender string, detail map[string]any) {
	if p.Progress == nil {
		return
	}
	p.Progress.Emit(ctx, progress.Event{
		InvocationID: r.invocationID,
		ExecutionID:  r.executionID,
		Stage:        stage,
		Key:          key,
		Sender:       sender,
		Detail:       detail,
		At:           time.Now().UTC(),
	})
}
