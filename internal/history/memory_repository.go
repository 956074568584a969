package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository. It backs
// the service when no database is configured and is also used in tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryRepository creates a new in-memory history repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]*Record),
	}
}

// Create stores a record.
func (r *InMemoryRepository) Create(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *record
	r.records[record.ID] = &cpy
	return nil
}

// Get retrieves a record by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	// Return a copy
	cpy := *rec
	return &cpy, nil
}

// List retrieves records newest first with cursor pagination.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		cpy := *rec
		records = append(records, &cpy)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if opts.Cursor != "" {
		for i, rec := range records {
			if rec.ID == opts.Cursor {
				records = records[i+1:]
				break
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{Items: records}
	if len(records) > limit {
		result.Items = records[:limit]
		result.NextCursor = records[limit-1].ID
	}

	return result, nil
}

// Delete removes a record by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, id)
	return nil
}

// Prune removes records older than the cutoff.
func (r *InMemoryRepository) Prune(_ context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, rec := range r.records {
		if rec.CreatedAt.Before(olderThan) {
			delete(r.records, id)
			removed++
		}
	}
	return removed, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
