package verify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blogwriter/margins/internal/cache"
	"github.com/blogwriter/margins/internal/model"
)

// CachedVerifier wraps a Verifier with an in-memory result cache keyed by a
// digest of the normalized text. Only successful results are cached;
// failures and timeouts always retry. Cached results live for the configured
// TTL, not across restarts.
type CachedVerifier struct {
	inner Verifier
	store cache.Cache
	ttl   time.Duration
}

// NewCachedVerifier wraps inner with the given cache.
func NewCachedVerifier(inner Verifier, store cache.Cache, ttl time.Duration) *CachedVerifier {
	return &CachedVerifier{inner: inner, store: store, ttl: ttl}
}

// Name returns the wrapped provider's name.
func (v *CachedVerifier) Name() string {
	return v.inner.Name()
}

// Check returns a cached result when available, otherwise delegates.
func (v *CachedVerifier) Check(ctx context.Context, req Request) (*model.FactCheckResult, error) {
	key := cache.Key(NormalizeText(req.Text))

	if data, found := v.store.Get(key); found {
		var result model.FactCheckResult
		if err := json.Unmarshal(data, &result); err == nil {
			return &result, nil
		}
		// Corrupt entry: drop it and re-verify.
		_ = v.store.Delete(key)
	}

	result, err := v.inner.Check(ctx, req)
	if err != nil {
		return nil, err
	}

	if result.Success {
		if data, err := json.Marshal(result); err == nil {
			_ = v.store.Set(key, data, v.ttl)
		}
	}

	return result, nil
}
