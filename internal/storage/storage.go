// Package storage defines the key/value contract the cart persistence adapter
// writes through to.
package storage

import (
	"context"

	apperrors "github.com/utafrali/assistive-store/pkg/errors"
)

// Store is a durable byte store keyed by string. Get returns an error
// satisfying apperrors.IsNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// TraceError filters err for a storage span: an absent key is an expected
// outcome, not a failed operation.
func TraceError(err error) error {
	if apperrors.IsNotFound(err) {
		return nil
	}
	return err
}
