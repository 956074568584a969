// Package converter turns coordinate text in any supported format into every
// other representation. Parsing happens on the caller's goroutine; projection
// work is serialized through a single-worker dispatcher with a bounded queue,
// and completed conversions are kept in a small LRU cache.
package converter

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridfix/gridfix/internal/coordinate"
	"github.com/gridfix/gridfix/internal/parser"
)

// Resolver resolves three-word addresses through an external geocoding
// service. Implementations live outside this package; the zero configuration
// is no resolver, in which case what3words inputs pass through unresolved.
type Resolver interface {
	Resolve(ctx context.Context, words string) (coordinate.LatLong, error)
	ReverseResolve(ctx context.Context, lat, lng float64) (string, error)
}

// Config controls a conversion Service. Zero values select defaults.
type Config struct {
	Logger   zerolog.Logger
	Resolver Resolver

	// CacheCapacity bounds the conversion cache. Default 100 entries.
	CacheCapacity int
	// CacheTTL is the lifetime of a cached conversion. Default 5 minutes.
	CacheTTL time.Duration
	// QueueCapacity bounds the dispatch queue. Default 50 requests.
	QueueCapacity int
	// RequestTimeout bounds how long a caller waits for the worker.
	// Default 5 seconds.
	RequestTimeout time.Duration
	// FrameBudget is the single-conversion latency above which a warning is
	// logged. Default 2ms.
	FrameBudget time.Duration
	// MaxBatchSize truncates oversized batch requests. Default 10000.
	MaxBatchSize int
	// BatchDispatchThreshold is the batch size at and below which items go
	// through the single-conversion path, reusing the cache. Default 10.
	BatchDispatchThreshold int
	// OnBatchProgress, when set, is invoked from the worker goroutine every
	// 100 completed items of a batched dispatch.
	OnBatchProgress func(completed, total int)
}

func (c Config) withDefaults() Config {
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = 100
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 50
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	if c.FrameBudget <= 0 {
		c.FrameBudget = 2 * time.Millisecond
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = 10000
	}
	if c.BatchDispatchThreshold <= 0 {
		c.BatchDispatchThreshold = 10
	}
	return c
}

// Result is the outcome of one conversion request.
type Result struct {
	Input       string
	Format      coordinate.Format
	Coordinate  *coordinate.Coordinate
	Conversions *coordinate.Conversions
	Cached      bool
	Err         error
}

// Success reports whether the conversion produced a usable result.
func (r Result) Success() bool { return r.Err == nil }

// Service is the conversion facade. Safe for concurrent use; create with New
// and release the worker with Close.
type Service struct {
	cfg        Config
	logger     zerolog.Logger
	cache      *conversionCache
	dispatcher *dispatcher
	tracer     trace.Tracer

	closed chan struct{}
}

// New builds a Service and starts its worker goroutine.
func New(cfg Config) *Service {
	cfg = cfg.withDefaults()
	logger := cfg.Logger.With().Str("component", "converter").Logger()
	return &Service{
		cfg:        cfg,
		logger:     logger,
		cache:      newConversionCache(cfg.CacheCapacity, cfg.CacheTTL),
		dispatcher: newDispatcher(logger, cfg.QueueCapacity, cfg.RequestTimeout, convertAll),
		tracer:     otel.Tracer("gridfix.converter"),
		closed:     make(chan struct{}),
	}
}

// Convert parses text in the given format and returns it in every
// representation the kernel can reach. An empty format auto-detects. Results
// are cached by format and normalized input text.
func (s *Service) Convert(ctx context.Context, text string, format coordinate.Format) Result {
	start := time.Now()
	defer s.observeLatency(start, "convert")

	ctx, span := s.tracer.Start(ctx, "converter.Convert",
		trace.WithAttributes(attribute.String("coordinate.format", string(format))))
	defer span.End()

	if s.isClosed() {
		return Result{Input: text, Format: format, Err: ErrClosed}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Input: text, Format: format, Err: coordinate.ErrEmptyInput}
	}

	if format == "" {
		detected, ok := parser.Detect(trimmed)
		if !ok {
			return Result{Input: text, Err: coordinate.ErrUnknownFormat}
		}
		format = detected
		span.SetAttributes(attribute.String("coordinate.detected_format", string(format)))
	} else if !format.Valid() {
		return Result{Input: text, Format: format, Err: coordinate.ErrUnknownFormat}
	}

	key := CacheKey(format, trimmed)
	if entry, ok := s.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return Result{Input: text, Format: format, Coordinate: entry.from, Conversions: entry.conversions, Cached: true}
	}

	parsed, err := parser.Parse(trimmed, format)
	if err != nil {
		return Result{Input: text, Format: format, Err: err}
	}

	conv, err := s.dispatchConvert(ctx, parsed)
	if err != nil {
		return Result{Input: text, Format: format, Coordinate: parsed, Err: err}
	}

	if format == coordinate.FormatWhat3Words {
		s.resolveWords(ctx, parsed, conv)
	}

	s.cache.Put(key, parsed, conv)
	return Result{Input: text, Format: format, Coordinate: parsed, Conversions: conv}
}

// ConvertBatch converts many inputs. Batches above the dispatch threshold go
// to the worker as one job with progress reporting; smaller batches reuse the
// single-conversion path and its cache. Inputs beyond MaxBatchSize are
// dropped with a warning.
func (s *Service) ConvertBatch(ctx context.Context, texts []string, format coordinate.Format) []Result {
	ctx, span := s.tracer.Start(ctx, "converter.ConvertBatch",
		trace.WithAttributes(attribute.Int("batch.size", len(texts))))
	defer span.End()

	if len(texts) > s.cfg.MaxBatchSize {
		s.logger.Warn().
			Int("requested", len(texts)).
			Int("max", s.cfg.MaxBatchSize).
			Msg("batch truncated to maximum size")
		texts = texts[:s.cfg.MaxBatchSize]
	}

	if len(texts) <= s.cfg.BatchDispatchThreshold {
		results := make([]Result, len(texts))
		for i, text := range texts {
			results[i] = s.Convert(ctx, text, format)
		}
		return results
	}

	if s.isClosed() {
		results := make([]Result, len(texts))
		for i, text := range texts {
			results[i] = Result{Input: text, Format: format, Err: ErrClosed}
		}
		return results
	}

	// Parse everything up front so the worker only sees valid coordinates.
	results := make([]Result, len(texts))
	coords := make([]*coordinate.Coordinate, 0, len(texts))
	indexes := make([]int, 0, len(texts))
	for i, text := range texts {
		trimmed := strings.TrimSpace(text)
		itemFormat := format
		if itemFormat == "" {
			detected, ok := parser.Detect(trimmed)
			if !ok {
				results[i] = Result{Input: text, Err: coordinate.ErrUnknownFormat}
				continue
			}
			itemFormat = detected
		}
		parsed, err := parser.Parse(trimmed, itemFormat)
		if err != nil {
			results[i] = Result{Input: text, Format: itemFormat, Err: err}
			continue
		}
		results[i] = Result{Input: text, Format: itemFormat, Coordinate: parsed}
		coords = append(coords, parsed)
		indexes = append(indexes, i)
	}

	if len(coords) == 0 {
		return results
	}

	j, err := s.dispatcher.submit(workerRequest{Type: requestBatch, Coordinates: coords}, s.cfg.OnBatchProgress)
	if err != nil {
		for _, i := range indexes {
			results[i].Err = err
		}
		return results
	}

	resp, err := s.dispatcher.await(ctx, j)
	if err != nil {
		for _, i := range indexes {
			results[i].Err = err
		}
		return results
	}

	for n, item := range resp.Batch {
		i := indexes[n]
		if item.err != nil {
			results[i].Err = item.err
			continue
		}
		results[i].Conversions = item.Conversions
		if results[i].Format == coordinate.FormatWhat3Words {
			s.resolveWords(ctx, results[i].Coordinate, item.Conversions)
		}
	}
	return results
}

// ConvertToLatLng reduces a parsed coordinate to a geographic point. For
// what3words inputs this requires a configured resolver.
func (s *Service) ConvertToLatLng(ctx context.Context, c *coordinate.Coordinate) (*coordinate.LatLong, error) {
	if c == nil {
		return nil, coordinate.ErrEmptyInput
	}

	if c.Format == coordinate.FormatWhat3Words {
		if c.What3Words == nil {
			return nil, coordinate.ErrEmptyInput
		}
		if s.cfg.Resolver == nil {
			return nil, ErrResolverUnavailable
		}
		point, err := s.cfg.Resolver.Resolve(ctx, c.What3Words.Words)
		if err != nil {
			return nil, err
		}
		return &point, nil
	}

	if c.Format == coordinate.FormatLatLong && c.LatLong != nil {
		point := *c.LatLong
		return &point, nil
	}

	conv, err := s.dispatchConvert(ctx, c)
	if err != nil {
		return nil, err
	}
	if conv.LatLong == nil {
		return nil, coordinate.ErrUnknownFormat
	}
	return conv.LatLong, nil
}

// CacheStats exposes cache counters for the ops endpoints.
func (s *Service) CacheStats() CacheStats { return s.cache.Stats() }

// Close stops the worker, rejects queued requests, and clears the cache.
// Idempotent; conversions after Close fail with ErrClosed.
func (s *Service) Close() {
	select {
	case <-s.closed:
		return
	default:
		close(s.closed)
	}
	s.dispatcher.close()
	s.cache.Clear()
}

func (s *Service) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *Service) dispatchConvert(ctx context.Context, c *coordinate.Coordinate) (*coordinate.Conversions, error) {
	j, err := s.dispatcher.submit(workerRequest{Type: requestConvert, Coordinate: c}, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.dispatcher.await(ctx, j)
	if err != nil {
		return nil, err
	}
	return resp.Conversions, nil
}

// resolveWords fills the geographic representations of a what3words input
// when a resolver is configured. Resolution failures degrade to passthrough.
func (s *Service) resolveWords(ctx context.Context, c *coordinate.Coordinate, conv *coordinate.Conversions) {
	if s.cfg.Resolver == nil || c == nil || c.What3Words == nil {
		return
	}

	point, err := s.cfg.Resolver.Resolve(ctx, c.What3Words.Words)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("words", c.What3Words.Words).
			Msg("what3words resolution failed, passing through")
		return
	}

	// The resolved point still needs its projections, and that work belongs
	// on the worker like every other conversion.
	resolved, err := s.dispatchConvert(ctx, &coordinate.Coordinate{
		Format:  coordinate.FormatLatLong,
		Raw:     c.Raw,
		LatLong: &point,
	})
	if err != nil {
		return
	}
	conv.LatLong = resolved.LatLong
	conv.UTM = resolved.UTM
	conv.MGRS = resolved.MGRS
}

func (s *Service) observeLatency(start time.Time, op string) {
	elapsed := time.Since(start)
	if elapsed > s.cfg.FrameBudget {
		s.logger.Warn().
			Str("op", op).
			Dur("elapsed", elapsed).
			Dur("budget", s.cfg.FrameBudget).
			Msg("conversion exceeded latency budget")
	}
}
