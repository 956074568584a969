// Package history records completed conversions so users can revisit and
// re-run recent lookups.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/gridfix/gridfix/internal/coordinate"
)

// ErrRecordNotFound is returned when a history record does not exist.
var ErrRecordNotFound = errors.New("history record not found")

// Record is one completed conversion.
type Record struct {
	ID          string                  `json:"id"`
	Input       string                  `json:"input"`
	Format      coordinate.Format       `json:"format"`
	Conversions *coordinate.Conversions `json:"conversions"`
	Cached      bool                    `json:"cached"`
	CreatedAt   time.Time               `json:"created_at"`
}

// ListOptions controls history pagination.
type ListOptions struct {
	// Limit is the maximum number of records to return (default 50).
	Limit int
	// Cursor is the ID to continue listing after.
	Cursor string
}

// ListResult is a page of history records, newest first.
type ListResult struct {
	Items      []*Record `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// Repository stores conversion history.
type Repository interface {
	// Create stores a record.
	Create(ctx context.Context, record *Record) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List retrieves records newest first with pagination.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Delete removes a record by ID.
	Delete(ctx context.Context, id string) error

	// Prune removes records older than the cutoff and returns how many
	// were removed.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}
