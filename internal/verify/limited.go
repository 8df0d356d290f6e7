package verify

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/blogwriter/margins/internal/model"
)

// LimitedVerifier wraps a Verifier with a request rate limit so that a
// burst of checks cannot flood the verification service.
type LimitedVerifier struct {
	inner   Verifier
	limiter *rate.Limiter
}

// NewLimitedVerifier wraps inner with the given requests-per-second limit.
func NewLimitedVerifier(inner Verifier, requestsPerSecond float64, burst int) *LimitedVerifier {
	if burst <= 0 {
		burst = 1
	}
	return &LimitedVerifier{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the wrapped provider's name.
func (v *LimitedVerifier) Name() string {
	return v.inner.Name()
}

// Check waits for rate-limit clearance, then delegates.
func (v *LimitedVerifier) Check(ctx context.Context, req Request) (*model.FactCheckResult, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return v.inner.Check(ctx, req)
}
