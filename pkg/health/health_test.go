package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestLivenessHandler(t *testing.T) {
	h := NewHandler("assistive-store")
	h.Register("cart_store", func(context.Context) error { return errors.New("down") })

	rec, resp := serve(t, h.LivenessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, "assistive-store", resp.Service)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Empty(t, resp.Checks)
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	h := NewHandler("svc")
	h.Register("cart_store", func(context.Context) error { return nil })
	h.Register("catalog", func(context.Context) error { return nil })

	rec, resp := serve(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["cart_store"].Status)
	assert.Equal(t, StatusUp, resp.Checks["catalog"].Status)
	assert.NotEmpty(t, resp.Checks["catalog"].Duration)
}

func TestReadinessHandler_OneDown(t *testing.T) {
	h := NewHandler("svc")
	h.Register("catalog", func(context.Context) error { return nil })
	h.Register("cart_store", func(context.Context) error { return errors.New("connection refused") })

	rec, resp := serve(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["catalog"].Status)
	assert.Equal(t, StatusDown, resp.Checks["cart_store"].Status)
	assert.Equal(t, "connection refused", resp.Checks["cart_store"].Error)
}

func TestReadinessHandler_NoCheckers(t *testing.T) {
	rec, resp := serve(t, NewHandler("svc").ReadinessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadinessHandler_Timeout(t *testing.T) {
	h := NewHandler("svc")
	h.timeout = 20 * time.Millisecond
	h.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	rec, resp := serve(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, context.DeadlineExceeded.Error(), resp.Checks["slow"].Error)
}

func TestRegister_Replaces(t *testing.T) {
	h := NewHandler("svc")
	h.Register("cart_store", func(context.Context) error { return errors.New("down") })
	h.Register("cart_store", func(context.Context) error { return nil })

	rec, _ := serve(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusOK, rec.Code)
}
