package converter

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfix/gridfix/internal/coordinate"
	"github.com/gridfix/gridfix/internal/parser"
)

// mockResolver satisfies Resolver with a fixed point and call counting.
type mockResolver struct {
	point    coordinate.LatLong
	err      error
	resolves atomic.Int32
	reverses atomic.Int32
}

func (m *mockResolver) Resolve(ctx context.Context, words string) (coordinate.LatLong, error) {
	m.resolves.Add(1)
	if m.err != nil {
		return coordinate.LatLong{}, m.err
	}
	return m.point, nil
}

func (m *mockResolver) ReverseResolve(ctx context.Context, lat, lng float64) (string, error) {
	m.reverses.Add(1)
	if m.err != nil {
		return "", m.err
	}
	return "filled.count.soap", nil
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	cfg.Logger = zerolog.Nop()
	s := New(cfg)
	t.Cleanup(s.Close)
	return s
}

func TestConvert_LatLong(t *testing.T) {
	s := newTestService(t, Config{})

	res := s.Convert(context.Background(), "40.7128, -74.0060", coordinate.FormatLatLong)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Conversions)
	assert.False(t, res.Cached)

	require.NotNil(t, res.Conversions.UTM)
	assert.Equal(t, 18, res.Conversions.UTM.Zone)
	assert.Equal(t, coordinate.HemisphereNorth, res.Conversions.UTM.Hemisphere)
	assert.InDelta(t, 583959.37, res.Conversions.UTM.Easting, 1.0)

	require.NotNil(t, res.Conversions.MGRS)
	assert.Equal(t, "18T", res.Conversions.MGRS.GridZone)
	assert.Equal(t, "WL", res.Conversions.MGRS.GridSquare)
}

func TestConvert_CachesByNormalizedInput(t *testing.T) {
	s := newTestService(t, Config{})

	first := s.Convert(context.Background(), "18T WL 83959 07351", coordinate.FormatMGRS)
	require.NoError(t, first.Err)
	assert.False(t, first.Cached)

	// Same literal with different case and surrounding whitespace.
	second := s.Convert(context.Background(), "  18t wl 83959 07351 ", coordinate.FormatMGRS)
	require.NoError(t, second.Err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Conversions, second.Conversions)

	stats := s.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
}

func TestConvert_AutoDetect(t *testing.T) {
	s := newTestService(t, Config{})

	res := s.Convert(context.Background(), "18T 583959 4507351", "")
	require.NoError(t, res.Err)
	assert.Equal(t, coordinate.FormatUTM, res.Format)
	require.NotNil(t, res.Conversions.LatLong)
	assert.InDelta(t, 40.7128, res.Conversions.LatLong.Lat, 1e-3)
}

func TestConvert_Errors(t *testing.T) {
	s := newTestService(t, Config{})
	ctx := context.Background()

	t.Run("empty input", func(t *testing.T) {
		res := s.Convert(ctx, "   ", coordinate.FormatLatLong)
		assert.ErrorIs(t, res.Err, coordinate.ErrEmptyInput)
	})

	t.Run("undetectable input", func(t *testing.T) {
		res := s.Convert(ctx, "not a coordinate at all", "")
		assert.ErrorIs(t, res.Err, coordinate.ErrUnknownFormat)
	})

	t.Run("invalid format tag", func(t *testing.T) {
		res := s.Convert(ctx, "40, -74", coordinate.Format("geohash"))
		assert.ErrorIs(t, res.Err, coordinate.ErrUnknownFormat)
	})

	t.Run("parse failure is not cached", func(t *testing.T) {
		before := s.CacheStats().Entries
		res := s.Convert(ctx, "91.0, 0.0", coordinate.FormatLatLong)
		require.Error(t, res.Err)
		assert.Equal(t, before, s.CacheStats().Entries)
	})
}

func TestConvert_What3WordsPassthrough(t *testing.T) {
	s := newTestService(t, Config{})

	res := s.Convert(context.Background(), "///filled.count.soap", coordinate.FormatWhat3Words)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Conversions.What3Words)
	assert.Equal(t, "filled.count.soap", res.Conversions.What3Words.Words)
	assert.Nil(t, res.Conversions.LatLong)
}

func TestConvert_What3WordsResolved(t *testing.T) {
	resolver := &mockResolver{point: coordinate.LatLong{Lat: 51.520847, Lng: -0.195521}}
	s := newTestService(t, Config{Resolver: resolver})

	res := s.Convert(context.Background(), "filled.count.soap", coordinate.FormatWhat3Words)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Conversions.LatLong)
	assert.InDelta(t, 51.520847, res.Conversions.LatLong.Lat, 1e-9)
	require.NotNil(t, res.Conversions.UTM)
	assert.Equal(t, 30, res.Conversions.UTM.Zone)
	assert.Equal(t, int32(1), resolver.resolves.Load())

	// Cached result must not hit the resolver again.
	again := s.Convert(context.Background(), "filled.count.soap", coordinate.FormatWhat3Words)
	require.NoError(t, again.Err)
	assert.True(t, again.Cached)
	assert.Equal(t, int32(1), resolver.resolves.Load())
}

func TestConvert_What3WordsResolverFailureDegrades(t *testing.T) {
	resolver := &mockResolver{err: fmt.Errorf("upstream down")}
	s := newTestService(t, Config{Resolver: resolver})

	res := s.Convert(context.Background(), "filled.count.soap", coordinate.FormatWhat3Words)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Conversions.What3Words)
	assert.Nil(t, res.Conversions.LatLong)
}

func TestConvertToLatLng(t *testing.T) {
	s := newTestService(t, Config{})
	ctx := context.Background()

	t.Run("from mgrs", func(t *testing.T) {
		c := &coordinate.Coordinate{
			Format: coordinate.FormatMGRS,
			MGRS:   &coordinate.MGRS{GridZone: "18T", GridSquare: "WL", Easting: 83959, Northing: 7351, Precision: 5},
		}
		point, err := s.ConvertToLatLng(ctx, c)
		require.NoError(t, err)
		assert.InDelta(t, 40.7128, point.Lat, 1e-3)
		assert.InDelta(t, -74.0060, point.Lng, 1e-3)
	})

	t.Run("latlong is returned directly", func(t *testing.T) {
		c := &coordinate.Coordinate{
			Format:  coordinate.FormatLatLong,
			LatLong: &coordinate.LatLong{Lat: 1, Lng: 2},
		}
		point, err := s.ConvertToLatLng(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, coordinate.LatLong{Lat: 1, Lng: 2}, *point)
	})

	t.Run("what3words without resolver", func(t *testing.T) {
		c := &coordinate.Coordinate{
			Format:     coordinate.FormatWhat3Words,
			What3Words: &coordinate.What3Words{Words: "filled.count.soap"},
		}
		_, err := s.ConvertToLatLng(ctx, c)
		assert.ErrorIs(t, err, ErrResolverUnavailable)
	})

	t.Run("nil coordinate", func(t *testing.T) {
		_, err := s.ConvertToLatLng(ctx, nil)
		assert.Error(t, err)
	})
}

func TestConvertBatch_SmallBatchUsesCache(t *testing.T) {
	s := newTestService(t, Config{})

	texts := []string{"40.7128, -74.0060", "40.7128, -74.0060", "51.5, -0.12"}
	results := s.ConvertBatch(context.Background(), texts, coordinate.FormatLatLong)
	require.Len(t, results, 3)
	assert.False(t, results[0].Cached)
	assert.True(t, results[1].Cached)
	assert.False(t, results[2].Cached)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

func TestConvertBatch_LargeBatchDispatchesOnce(t *testing.T) {
	var progressCalls atomic.Int32
	s := newTestService(t, Config{
		OnBatchProgress: func(completed, total int) {
			progressCalls.Add(1)
		},
	})

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = fmt.Sprintf("%.4f, %.4f", float64(i%80)-40.0, float64(i%170)-85.0)
	}

	results := s.ConvertBatch(context.Background(), texts, coordinate.FormatLatLong)
	require.Len(t, results, 250)
	for i, r := range results {
		require.NoError(t, r.Err, "item %d", i)
		require.NotNil(t, r.Conversions.UTM, "item %d", i)
	}
	// Progress fires every 100 completed items: at 100 and 200.
	assert.Equal(t, int32(2), progressCalls.Load())
	// Batched dispatch bypasses the cache.
	assert.Equal(t, 0, s.CacheStats().Entries)
}

func TestConvertBatch_PerItemErrors(t *testing.T) {
	s := newTestService(t, Config{BatchDispatchThreshold: 1})

	texts := []string{"40, -74", "garbage", "12.5, 100.25"}
	results := s.ConvertBatch(context.Background(), texts, coordinate.FormatLatLong)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
}

func TestConvertBatch_Truncates(t *testing.T) {
	s := newTestService(t, Config{MaxBatchSize: 5})

	texts := make([]string, 8)
	for i := range texts {
		texts[i] = fmt.Sprintf("%d.0, %d.0", i, i)
	}
	results := s.ConvertBatch(context.Background(), texts, coordinate.FormatLatLong)
	assert.Len(t, results, 5)
}

func TestConvert_AfterClose(t *testing.T) {
	s := New(Config{Logger: zerolog.Nop()})
	s.Close()
	s.Close() // idempotent

	res := s.Convert(context.Background(), "40, -74", coordinate.FormatLatLong)
	assert.ErrorIs(t, res.Err, ErrClosed)

	results := s.ConvertBatch(context.Background(), make([]string, 20), coordinate.FormatLatLong)
	require.Len(t, results, 20)
	assert.ErrorIs(t, results[0].Err, ErrClosed)
}

func TestConvert_QueueFullSurfacesError(t *testing.T) {
	s := newTestService(t, Config{})

	// Replace the dispatcher with one whose worker is stalled so the queue
	// backs up.
	release := make(chan struct{})
	s.dispatcher.close()
	s.dispatcher = newDispatcher(zerolog.Nop(), 1, time.Minute, func(c *coordinate.Coordinate) (*coordinate.Conversions, error) {
		<-release
		return convertAll(c)
	})
	defer s.dispatcher.close()
	defer close(release)

	// First job occupies the worker, second fills the one-slot queue.
	first, err := s.dispatcher.submit(workerRequest{Type: requestConvert, Coordinate: mustParseLatLong(t, "1, 1")}, nil)
	require.NoError(t, err)
	waitForQueueDrain(t, s.dispatcher)
	_, err = s.dispatcher.submit(workerRequest{Type: requestConvert, Coordinate: mustParseLatLong(t, "2, 2")}, nil)
	require.NoError(t, err)

	res := s.Convert(context.Background(), "3, 3", coordinate.FormatLatLong)
	assert.ErrorIs(t, res.Err, ErrQueueFull)

	_ = first
}

func mustParseLatLong(t *testing.T, text string) *coordinate.Coordinate {
	t.Helper()
	c, err := parser.Parse(text, coordinate.FormatLatLong)
	require.NoError(t, err)
	return c
}

// waitForQueueDrain waits until the worker has picked up the in-flight job so
// the queue slot count is deterministic.
func waitForQueueDrain(t *testing.T, d *dispatcher) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(d.queue) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("worker never picked up the queued job")
		}
		time.Sleep(time.Millisecond)
	}
}
