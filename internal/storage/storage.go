// Package storage defines the key-value persistence port used by the
// decision-layer stores. Implementations are interchangeable; callers treat a
// nil value as "no data" so that an unavailable backend degrades to the
// default, unbiased behavior instead of failing a decision.
package storage

import "context"

// KV is the persistence port for decision-layer state. Get returns (nil, nil)
// when the key is absent. Keys returns every stored key with the given prefix.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
