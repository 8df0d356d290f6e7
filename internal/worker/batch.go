package worker

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blogwriter/margins/internal/verify"
)

// BatchProcessor fact-checks many text blocks concurrently.
type BatchProcessor struct {
	verifier    verify.Verifier
	maxClaims   int
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(verifier verify.Verifier, maxClaims, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		maxClaims:   maxClaims,
		concurrency: concurrency,
	}
}

// Process checks all blocks concurrently and returns results ordered by
// job ID.
func (b *BatchProcessor) Process(jobs []CheckJob) []CheckResult {
	if len(jobs) == 0 {
		return []CheckResult{}
	}

	pool := NewPool(b.verifier, b.maxClaims, b.concurrency)
	pool.Start()

	// Submit from a separate goroutine so Wait can drain results while the
	// queue fills; otherwise a large batch fills both buffers and stalls.
	go func() {
		for _, job := range jobs {
			pool.Submit(job)
		}
		pool.CloseJobs()
	}()

	results := pool.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

// ReadBlocks reads text blocks from a file: blocks are separated by one or
// more blank lines, and each becomes one CheckJob with a zero-padded ID.
func ReadBlocks(path string) ([]CheckJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	var jobs []CheckJob
	var current strings.Builder

	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text != "" {
			jobs = append(jobs, CheckJob{
				ID:   fmt.Sprintf("block-%03d", len(jobs)+1),
				Text: text,
			})
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return jobs, nil
}
