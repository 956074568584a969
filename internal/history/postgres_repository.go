package history

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Conversions are stored as JSONB; pgx maps the column to the struct
// directly.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL history repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a record.
func (r *PostgresRepository) Create(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO conversion_history (
			id, input, format, conversions, cached, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.Input,
		record.Format,
		record.Conversions,
		record.Cached,
		record.CreatedAt,
	)
	return err
}

// Get retrieves a record by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT id, input, format, conversions, cached, created_at
		FROM conversion_history
		WHERE id = $1
	`

	var record Record
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Input,
		&record.Format,
		&record.Conversions,
		&record.Cached,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &record, nil
}

// List retrieves records newest first with cursor pagination.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT id, input, format, conversions, cached, created_at
		FROM conversion_history
		WHERE ($1 = '' OR created_at < (SELECT created_at FROM conversion_history WHERE id = $1))
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, opts.Cursor, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var record Record
		err := rows.Scan(
			&record.ID,
			&record.Input,
			&record.Format,
			&record.Conversions,
			&record.Cached,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Items: records}
	if len(records) > limit {
		result.Items = records[:limit]
		result.NextCursor = records[limit-1].ID
	}

	return result, nil
}

// Delete removes a record by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM conversion_history WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Prune removes records older than the cutoff.
func (r *PostgresRepository) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM conversion_history WHERE created_at < $1`
	result, err := r.pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
