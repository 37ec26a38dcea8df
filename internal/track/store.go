package track

import "context"

// BlobStore is the execution-log boundary: JSON blobs at paths namespaced by
// function name and execution id.
type BlobStore interface {
	Put(ctx context.Context, path string, body []byte) error
	Get(ctx context.Context, path string) (body []byte, ok bool, err error)
	Delete(ctx context.Context, path string) error
}

func inputPath(functionName string, executionID string) string {
	return functionName + "/" + executionID + "/input.json"
}

func failurePath(functionName string, executionID string) string {
	return functionName + "/" + executionID + "/failure.json"
}
