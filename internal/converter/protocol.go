package converter

import "github.com/gridfix/gridfix/internal/coordinate"

// Worker protocol messages. The structs carry JSON tags so the worker
// boundary could move out of process without changing the envelope shape.

type requestKind string

const (
	requestConvert requestKind = "convert"
	requestBatch   requestKind = "batch"
	requestPing    requestKind = "ping"
)

type responseKind string

const (
	responseResult      responseKind = "result"
	responseBatchResult responseKind = "batch-result"
	responseError       responseKind = "error"
)

type workerRequest struct {
	Type        requestKind              `json:"type"`
	ID          uint64                   `json:"id"`
	Coordinate  *coordinate.Coordinate   `json:"coordinate,omitempty"`
	Coordinates []*coordinate.Coordinate `json:"coordinates,omitempty"`
}

// batchItem is the per-coordinate outcome inside a batch response. Items fail
// individually; one bad coordinate does not poison the batch.
type batchItem struct {
	Conversions *coordinate.Conversions `json:"conversions,omitempty"`
	Error       string                  `json:"error,omitempty"`

	err error
}

type workerResponse struct {
	Type        responseKind            `json:"type"`
	ID          uint64                  `json:"id"`
	Conversions *coordinate.Conversions `json:"conversions,omitempty"`
	Batch       []batchItem             `json:"batch,omitempty"`
	Error       string                  `json:"error,omitempty"`

	err error
}
