package pipeline

import (
	"github.com/feedworks/stockpipe/internal/event"
	"github.com/feedworks/stockpipe/internal/track"
)

type KeyError struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// ProcessingResults accounts for every change record in the batch: each one
// ends in exactly one of the three lists.
type ProcessingResults struct {
	FilteredKeys     []event.FilteredKey `json:"filtered_keys"`
	ProcessedKeys    []string            `json:"processed_keys"`
	ProcessingErrors []KeyError          `json:"processing_errors"`
}

func newProcessingResults() ProcessingResults {
	return ProcessingResults{
		FilteredKeys:     []event.FilteredKey{},
		ProcessedKeys:    []string{},
		ProcessingErrors: []KeyError{},
	}
}

// Result is what every invocation returns, on either path. Failure is set
// when the execution as a whole failed; Results is always populated, so
// callers distinguish "some keys failed" from "all keys failed" by
// inspecting ProcessingErrors.
type Result struct {
	ExecutionID string               `json:"execution_id,omitempty"`
	Results     ProcessingResults    `json:"results"`
	Failure     *track.FailureResult `json:"failure,omitempty"`
}

func (r Result) Succeeded() bool { return r.Failure == nil }

// FatalResult wraps a fault raised before an execution could be tracked,
// such as missing configuration. Callers still receive a structured result.
func FatalResult(err error) Result {
	return Result{
		Results: newProcessingResults(),
		Failure: &track.FailureResult{
			Status: "failed",
			Error:  track.ErrorInfo{Message: err.Error()},
		},
	}
}
