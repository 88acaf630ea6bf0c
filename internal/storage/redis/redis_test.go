package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/utafrali/assistive-store/internal/storage"
	apperrors "github.com/utafrali/assistive-store/pkg/errors"
)

var _ storage.Store = (*Store)(nil)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(client)
	t.Cleanup(func() { _ = s.Close() })

	return mr, s
}

func TestStore_GetMissing(t *testing.T) {
	_, s := setupTestRedis(t)

	_, err := s.Get(context.Background(), "fashe-cart")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	return exporter
}

func TestStore_GetMissingIsNotASpanError(t *testing.T) {
	exporter := recordSpans(t)
	_, s := setupTestRedis(t)

	_, err := s.Get(context.Background(), "fashe-cart")
	require.True(t, apperrors.IsNotFound(err))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "db.Get", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Empty(t, spans[0].Events)
}

func TestStore_SetGet(t *testing.T) {
	mr, s := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "fashe-cart", []byte(`[]`)))

	got, err := s.Get(ctx, "fashe-cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	raw, err := mr.Get("fashe-cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
}

func TestStore_SetHasNoTTL(t *testing.T) {
	mr, s := setupTestRedis(t)

	require.NoError(t, s.Set(context.Background(), "fashe-cart", []byte(`[]`)))
	assert.Zero(t, mr.TTL("fashe-cart"))
}

func TestStore_Overwrite(t *testing.T) {
	_, s := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("one")))
	require.NoError(t, s.Set(ctx, "k", []byte("two")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestStore_ServerDown(t *testing.T) {
	mr, s := setupTestRedis(t)
	mr.Close()
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))

	assert.Error(t, s.Set(ctx, "k", []byte("v")))
	assert.Error(t, s.Ping(ctx))
}

func TestStore_Ping(t *testing.T) {
	_, s := setupTestRedis(t)
	assert.NoError(t, s.Ping(context.Background()))
}
