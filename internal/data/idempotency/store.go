// Package idempotency records client-supplied request keys so a retried
// submission is applied once.
package idempotency

import (
	"context"
	"time"
)

const DefaultTTL = 24 * time.Hour

type Store interface {
	// Claim records key with value for ttl. It returns false when the key is
	// already held.
	Claim(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Release drops key so a failed attempt can be retried.
	Release(ctx context.Context, key string) error
	Close() error
}
