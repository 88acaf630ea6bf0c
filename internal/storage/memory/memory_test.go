package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/assistive-store/internal/storage"
	apperrors "github.com/utafrali/assistive-store/pkg/errors"
)

var _ storage.Store = (*Store)(nil)

func TestStore_GetMissing(t *testing.T) {
	_, err := New().Get(context.Background(), "fashe-cart")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	require.NoError(t, s.Set(ctx, "k", []byte("v2")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := New()

	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestStore_PingClose(t *testing.T) {
	s := New()
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}
