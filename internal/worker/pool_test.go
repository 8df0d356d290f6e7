package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/verify"
)

// mockVerifier counts calls and fails for texts containing "bad".
type mockVerifier struct {
	delay    time.Duration
	executed int32
}

func (m *mockVerifier) Name() string { return "mock" }

func (m *mockVerifier) Check(ctx context.Context, req verify.Request) (*model.FactCheckResult, error) {
	atomic.AddInt32(&m.executed, 1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if len(req.Text) >= 3 && req.Text[:3] == "bad" {
		return nil, errors.New("verification failed")
	}
	return &model.FactCheckResult{Success: true, TotalClaims: 1}, nil
}

func TestNewPool_WorkerFloor(t *testing.T) {
	p := NewPool(&mockVerifier{}, 10, 0)
	if p.workers != 1 {
		t.Errorf("expected 1 worker for 0 input, got %d", p.workers)
	}
	p = NewPool(&mockVerifier{}, 10, -3)
	if p.workers != 1 {
		t.Errorf("expected 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	v := &mockVerifier{}
	pool := NewPool(v, 10, 3)
	pool.Start()

	count := 10
	for i := 0; i < count; i++ {
		pool.Submit(CheckJob{ID: "job", Text: "the sky is blue"})
	}

	pool.CloseJobs()
	results := pool.Wait()
	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if got := atomic.LoadInt32(&v.executed); got != int32(count) {
		t.Errorf("expected %d verifier calls, got %d", count, got)
	}
	for _, r := range results {
		if r.Err != nil || r.Result == nil || !r.Result.Success {
			t.Errorf("unexpected result %+v", r)
		}
	}
}

func TestPool_ErrorsSurfacePerJob(t *testing.T) {
	pool := NewPool(&mockVerifier{}, 10, 2)
	pool.Start()

	pool.Submit(CheckJob{ID: "a", Text: "bad claim ahead"})
	pool.Submit(CheckJob{ID: "b", Text: "the sky is blue"})

	pool.CloseJobs()
	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failed job, got %d", failures)
	}
}

func TestPool_ShutdownCancelsInFlight(t *testing.T) {
	v := &mockVerifier{delay: time.Second}
	pool := NewPool(v, 10, 2)
	pool.Start()

	pool.Submit(CheckJob{ID: "a", Text: "the sky is blue"})
	pool.Submit(CheckJob{ID: "b", Text: "the sky is blue"})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Shutdown did not cancel in-flight checks promptly")
	}
}

func TestBatchProcessor_OrdersResults(t *testing.T) {
	b := NewBatchProcessor(&mockVerifier{}, 10, 4)
	jobs := []CheckJob{
		{ID: "block-003", Text: "gamma claims"},
		{ID: "block-001", Text: "alpha claims"},
		{ID: "block-002", Text: "beta claims"},
	}

	results := b.Process(jobs)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"block-001", "block-002", "block-003"} {
		if results[i].ID != want {
			t.Errorf("results[%d].ID = %s, want %s", i, results[i].ID, want)
		}
	}
}

func TestReadBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.txt")
	content := "first paragraph line one\nline two\n\n\nsecond paragraph\n\n   \nthird paragraph\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	jobs, err := ReadBlocks(path)
	if err != nil {
		t.Fatalf("ReadBlocks: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(jobs))
	}
	if jobs[0].Text != "first paragraph line one\nline two" {
		t.Errorf("jobs[0].Text = %q", jobs[0].Text)
	}
	if jobs[0].ID != "block-001" || jobs[2].ID != "block-003" {
		t.Errorf("unexpected IDs: %s, %s", jobs[0].ID, jobs[2].ID)
	}
}
