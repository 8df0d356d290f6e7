package verify

import (
	"fmt"
	"strings"
	"time"

	"github.com/blogwriter/margins/internal/cache"
	"github.com/blogwriter/margins/internal/model"
)

// NewVerifier creates a verifier from configuration, wrapping it with rate
// limiting and caching when those are enabled.
func NewVerifier(cfg model.VerifierConfig, cacheCfg model.CacheConfig) (Verifier, error) {
	base, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	v := base
	if cfg.RateLimit > 0 {
		v = NewLimitedVerifier(v, cfg.RateLimit, cfg.RateBurst)
	}
	if cacheCfg.Enabled {
		store := cache.NewMemoryCache(cacheCfg.TTL, 10*time.Minute)
		v = NewCachedVerifier(v, store, cacheCfg.TTL)
	}

	return v, nil
}

func newProvider(cfg model.VerifierConfig) (Verifier, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIVerifier(cfg)
	case "http", "":
		return NewHTTPVerifier(cfg)
	default:
		return nil, fmt.Errorf("unknown verifier provider: %s (supported: openai, http)", cfg.Provider)
	}
}
