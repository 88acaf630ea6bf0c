// Package redis implements storage.Store on top of a Redis string key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/assistive-store/internal/storage"
	"github.com/utafrali/assistive-store/pkg/database"
	apperrors "github.com/utafrali/assistive-store/pkg/errors"
)

// Store stores each value as a plain Redis string with no expiry.
type Store struct {
	client *redis.Client
}

// New wraps an existing client. The store owns the client from here on.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get returns the value at key or a NotFound error on redis.Nil.
func (s *Store) Get(ctx context.Context, key string) (value []byte, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "Get", "GET "+key)
	defer func() { end(storage.TraceError(err)) }()

	value, err = s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NotFound("key", key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set writes value at key without a TTL.
func (s *Store) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "Set", "SET "+key)
	defer func() { end(err) }()

	if err = s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
