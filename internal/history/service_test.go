package history

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfix/gridfix/internal/converter"
	"github.com/gridfix/gridfix/internal/coordinate"
)

func newTestService(repo Repository) *Service {
	return NewService(ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		Retention:  time.Hour,
	})
}

func sampleResult(input string) converter.Result {
	point := &coordinate.LatLong{Lat: 40.7128, Lng: -74.0060}
	return converter.Result{
		Input:  input,
		Format: coordinate.FormatLatLong,
		Conversions: &coordinate.Conversions{
			LatLong: point,
		},
	}
}

func TestRecordConversion(t *testing.T) {
	svc := newTestService(NewInMemoryRepository())
	ctx := context.Background()

	record, err := svc.RecordConversion(ctx, sampleResult("40.7128, -74.0060"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record.ID, "hst_"))
	assert.Equal(t, "40.7128, -74.0060", record.Input)
	assert.False(t, record.CreatedAt.IsZero())

	got, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Input, got.Input)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(NewInMemoryRepository())

	_, err := svc.Get(context.Background(), "hst_missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestList_NewestFirstWithCursor(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &Record{
			ID:        fmt.Sprintf("hst_%d", i),
			Input:     fmt.Sprintf("input %d", i),
			Format:    coordinate.FormatLatLong,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	svc := newTestService(repo)
	page, err := svc.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "hst_4", page.Items[0].ID)
	assert.Equal(t, "hst_3", page.Items[1].ID)
	require.NotEmpty(t, page.NextCursor)

	next, err := svc.List(ctx, ListOptions{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, next.Items, 2)
	assert.Equal(t, "hst_2", next.Items[0].ID)
}

func TestDelete(t *testing.T) {
	svc := newTestService(NewInMemoryRepository())
	ctx := context.Background()

	record, err := svc.RecordConversion(ctx, sampleResult("1, 2"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, record.ID))
	_, err = svc.Get(ctx, record.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestPrune(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Record{
		ID:        "hst_old",
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &Record{
		ID:        "hst_new",
		CreatedAt: time.Now().UTC(),
	}))

	svc := newTestService(repo)
	svc.pruneOnce(ctx)

	_, err := repo.Get(ctx, "hst_old")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = repo.Get(ctx, "hst_new")
	assert.NoError(t, err)
}
