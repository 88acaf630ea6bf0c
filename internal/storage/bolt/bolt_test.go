package bolt

import (
	"context"
	"path/filepath"
	"testing"

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

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "cart.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

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
	s, _ := openTemp(t)
	defer s.Close()

	_, err := s.Get(context.Background(), "fashe-cart")
	require.True(t, apperrors.IsNotFound(err))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "db.Get", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Empty(t, spans[0].Events)
}

func TestStore_SetGet(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "fashe-cart", []byte(`[{"cart_id":1}]`)))

	got, err := s.Get(ctx, "fashe-cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"cart_id":1}]`), got)
}

func TestStore_SurvivesReopen(t *testing.T) {
	s, path := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "fashe-cart", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "fashe-cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestStore_Ping(t *testing.T) {
	s, _ := openTemp(t)
	assert.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(context.Background()))
}
