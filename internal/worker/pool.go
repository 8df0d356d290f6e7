// Package worker runs many fact-checks concurrently for batch mode.
package worker

import (
	"context"
	"sync"

	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/verify"
)

// CheckJob is one block of text to fact-check.
type CheckJob struct {
	ID   string // caller-assigned identifier, carried into the result
	Text string
}

// CheckResult pairs a job with its outcome. Exactly one of Result/Err is
// meaningful, mirroring the verifier boundary.
type CheckResult struct {
	ID     string
	Result *model.FactCheckResult
	Err    error
}

// Pool fans CheckJobs out over a fixed number of workers, all sharing one
// verifier (and therefore its rate limit and cache).
type Pool struct {
	verifier   verify.Verifier
	maxClaims  int
	workers    int
	jobs       chan CheckJob
	results    chan CheckResult
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool with the given worker count.
func NewPool(verifier verify.Verifier, maxClaims, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if maxClaims <= 0 {
		maxClaims = 10
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		verifier:   verifier,
		maxClaims:  maxClaims,
		workers:    workers,
		jobs:       make(chan CheckJob, workers*2),
		results:    make(chan CheckResult, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result, err := p.verifier.Check(p.ctx, verify.Request{
				Text:           verify.NormalizeText(job.Text),
				IncludeSources: true,
				MaxClaims:      p.maxClaims,
			})
			select {
			case p.results <- CheckResult{ID: job.ID, Result: result, Err: err}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Submissions after Shutdown are dropped.
func (p *Pool) Submit(job CheckJob) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// CloseJobs ends submissions. Workers exit once the queue drains.
func (p *Pool) CloseJobs() {
	close(p.jobs)
}

// Wait blocks until the workers finish and returns all results. Callers must
// end submissions with CloseJobs first, or submit from another goroutine
// while Wait drains.
func (p *Pool) Wait() []CheckResult {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []CheckResult
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown stops the pool immediately, cancelling in-flight checks.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
