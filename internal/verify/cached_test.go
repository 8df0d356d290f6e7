package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blogwriter/margins/internal/cache"
	"github.com/blogwriter/margins/internal/model"
)

type countingVerifier struct {
	calls  int
	result *model.FactCheckResult
	err    error
}

func (c *countingVerifier) Name() string { return "counting" }

func (c *countingVerifier) Check(ctx context.Context, req Request) (*model.FactCheckResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	r := *c.result
	return &r, nil
}

func TestCachedVerifier_ReusesSuccessfulResults(t *testing.T) {
	inner := &countingVerifier{result: &model.FactCheckResult{
		Success:     true,
		TotalClaims: 2,
		Timestamp:   "2026-03-04T05:06:07Z",
	}}
	v := NewCachedVerifier(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	req := Request{Text: "the moon orbits the earth", IncludeSources: true, MaxClaims: 10}

	first, err := v.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}
	second, err := v.Check(context.Background(), req)
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("inner verifier called %d times, want 1", inner.calls)
	}
	if first.TotalClaims != second.TotalClaims || first.Timestamp != second.Timestamp {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestCachedVerifier_EquivalentWhitespaceSharesEntry(t *testing.T) {
	inner := &countingVerifier{result: &model.FactCheckResult{Success: true}}
	v := NewCachedVerifier(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	if _, err := v.Check(context.Background(), Request{Text: "the moon   orbits\nthe earth", MaxClaims: 10}); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Check(context.Background(), Request{Text: "  the moon orbits the earth ", MaxClaims: 10}); err != nil {
		t.Fatal(err)
	}

	if inner.calls != 1 {
		t.Errorf("inner verifier called %d times, want 1 (normalized texts share a key)", inner.calls)
	}
}

func TestCachedVerifier_DoesNotCacheFailures(t *testing.T) {
	inner := &countingVerifier{err: errors.New("boom")}
	v := NewCachedVerifier(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	req := Request{Text: "the moon orbits the earth", MaxClaims: 10}
	if _, err := v.Check(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}
	if _, err := v.Check(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}

	if inner.calls != 2 {
		t.Errorf("inner verifier called %d times, want 2 (errors are not cached)", inner.calls)
	}
}

func TestCachedVerifier_UnsuccessfulResultNotCached(t *testing.T) {
	inner := &countingVerifier{result: &model.FactCheckResult{Success: false, Error: "Failed to check facts: nope"}}
	v := NewCachedVerifier(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	req := Request{Text: "the moon orbits the earth", MaxClaims: 10}
	if _, err := v.Check(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Check(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	if inner.calls != 2 {
		t.Errorf("inner verifier called %d times, want 2 (success=false is retried)", inner.calls)
	}
}
