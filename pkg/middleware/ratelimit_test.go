package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/assistive-store/pkg/logger"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestRateLimit_BurstThenReject(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	h := rateLimit(RateLimitConfig{RPS: 1, Burst: 2}, clock.Now, logger.Discard())(http.HandlerFunc(okHandler))

	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1000", "/cart/items").Code)
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1001", "/cart/items").Code)

	rec := serveFrom(h, "10.0.0.1:1002", "/cart/items")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")

	// Buckets are per client address.
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.2:1000", "/cart/items").Code)

	clock.Advance(time.Second)
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1003", "/cart/items").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(h, "10.0.0.1:1004", "/cart/items").Code)
}

func TestRateLimit_SlowRateRetryAfter(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	h := rateLimit(RateLimitConfig{RPS: 0.25}, clock.Now, logger.Discard())(http.HandlerFunc(okHandler))

	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1", "/").Code)
	rec := serveFrom(h, "10.0.0.1:1", "/")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("Retry-After"))
}

func TestVisitorStore_EvictsIdleClients(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := newVisitorStore(10, 10, time.Minute, clock.Now)

	assert.True(t, store.allow("10.0.0.1"))
	assert.True(t, store.allow("10.0.0.2"))
	assert.Equal(t, 2, store.len())

	clock.Advance(30 * time.Second)
	assert.True(t, store.allow("10.0.0.1"))
	assert.Equal(t, 2, store.len())

	clock.Advance(45 * time.Second)
	assert.True(t, store.allow("10.0.0.3"))
	assert.Equal(t, 2, store.len(), "10.0.0.2 was idle past the TTL")
}
