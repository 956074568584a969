package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gridfix/gridfix/internal/converter"
)

// ServiceConfig holds configuration for the history service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Retention is how long records are kept before pruning.
	// Default 30 days.
	Retention time.Duration

	// PruneInterval is how often the background pruner runs.
	// Default 1 hour.
	PruneInterval time.Duration
}

// Service records conversions and serves the recent-history listing.
type Service struct {
	repo          Repository
	logger        zerolog.Logger
	retention     time.Duration
	pruneInterval time.Duration
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) *Service {
	retention := cfg.Retention
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	pruneInterval := cfg.PruneInterval
	if pruneInterval <= 0 {
		pruneInterval = time.Hour
	}

	return &Service{
		repo:          cfg.Repository,
		logger:        cfg.Logger.With().Str("component", "history").Logger(),
		retention:     retention,
		pruneInterval: pruneInterval,
	}
}

// RecordConversion stores a successful conversion result. Failed conversions
// are not recorded.
func (s *Service) RecordConversion(ctx context.Context, result converter.Result) (*Record, error) {
	record := &Record{
		ID:          "hst_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		Input:       result.Input,
		Format:      result.Format,
		Conversions: result.Conversions,
		Cached:      result.Cached,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get retrieves a record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves recent records, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	return s.repo.List(ctx, opts)
}

// Delete removes a record by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// RunPruner prunes expired records on a fixed interval until the context is
// cancelled. Intended to run in its own goroutine.
func (s *Service) RunPruner(ctx context.Context) {
	ticker := time.NewTicker(s.pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pruneOnce(ctx)
		}
	}
}

func (s *Service) pruneOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.retention)
	removed, err := s.repo.Prune(ctx, cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("history prune failed")
		return
	}
	if removed > 0 {
		s.logger.Info().
			Int64("removed", removed).
			Time("cutoff", cutoff).
			Msg("pruned expired history records")
	}
}
