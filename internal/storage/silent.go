package storage

import "context"

// NoopKV discards writes and reports every key as absent. It stands in for
// environments where persistence is unavailable.
type NoopKV struct{}

func (NoopKV) Get(ctx context.Context, key string) ([]byte, error)   { return nil, nil }
func (NoopKV) Set(ctx context.Context, key string, value []byte) error { return nil }
func (NoopKV) Delete(ctx context.Context, key string) error          { return nil }
func (NoopKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

// Silent wraps a KV and swallows backend errors: failed reads report absence,
// failed writes are dropped. Decision routing must come out identical whether
// persistence succeeds or not, so storage failure is never allowed to surface.
type Silent struct {
	inner KV
}

// NewSilent wraps the given KV with silent-fail semantics.
func NewSilent(inner KV) *Silent {
	return &Silent{inner: inner}
}

func (s *Silent) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, nil
	}
	return v, nil
}

func (s *Silent) Set(ctx context.Context, key string, value []byte) error {
	_ = s.inner.Set(ctx, key, value)
	return nil
}

func (s *Silent) Delete(ctx context.Context, key string) error {
	_ = s.inner.Delete(ctx, key)
	return nil
}

func (s *Silent) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.inner.Keys(ctx, prefix)
	if err != nil {
		return nil, nil
	}
	return keys, nil
}
