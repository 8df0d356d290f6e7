// Package sources validates the source links a fact-check result cites:
// bounded-concurrency reachability checks with retries and robots.txt
// compliance.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/util"
)

const maxRetries = 3

// sleepFunc is the sleep used between retries (injectable for tests)
var sleepFunc = time.Sleep

// Result is the outcome of checking one cited source URL.
type Result struct {
	URL        string `json:"url"`
	Accessible bool   `json:"accessible"`
	StatusCode int    `json:"status_code,omitempty"`
	Dead       bool   `json:"dead,omitempty"`     // 404/410 or unresolvable
	Blocked    bool   `json:"blocked,omitempty"`  // disallowed by robots.txt
	Redirect   string `json:"redirect,omitempty"` // final URL if redirected
	Error      string `json:"error,omitempty"`
}

// Validator checks cited source links concurrently.
type Validator struct {
	httpClient *http.Client
	maxWorkers int
	userAgent  string
	robots     *util.RobotsChecker // nil when robots compliance is disabled
}

// NewValidator creates a validator from configuration.
func NewValidator(cfg model.SourcesConfig, workers int, userAgent string) *Validator {
	if workers <= 0 {
		workers = 10
	}
	if userAgent == "" {
		userAgent = model.DefaultConfig().Verifier.UserAgent
	}

	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(userAgent, cfg.Timeout)
	}

	return &Validator{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		maxWorkers: workers,
		userAgent:  userAgent,
		robots:     robots,
	}
}

// Validate checks all URLs concurrently, preserving input order in the
// returned results.
func (v *Validator) Validate(ctx context.Context, urls []string) []Result {
	if len(urls) == 0 {
		return []Result{}
	}

	results := make([]Result, len(urls))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = Result{URL: rawURL, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = v.checkWithRetry(ctx, rawURL)
		}(i, u)
	}

	wg.Wait()
	return results
}

func (v *Validator) check(ctx context.Context, rawURL string) Result {
	result := Result{URL: rawURL}

	if v.robots != nil && !v.robots.IsAllowed(ctx, rawURL) {
		result.Blocked = true
		result.Error = "disallowed by robots.txt"
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		result.Dead = true
		return result
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Dead = true
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Accessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.Dead = true
	}

	if final := resp.Request.URL.String(); final != rawURL {
		result.Redirect = final
	}

	return result
}

// checkWithRetry retries transient failures with exponential backoff.
func (v *Validator) checkWithRetry(ctx context.Context, rawURL string) Result {
	var result Result
	for attempt := 0; attempt < maxRetries; attempt++ {
		result = v.check(ctx, rawURL)
		if !retryable(result) {
			return result
		}
		if attempt < maxRetries-1 {
			sleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return result
}

func retryable(result Result) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.Error != "" {
		s := strings.ToLower(result.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}

// claimSources is the loose shape used to peek at a claim's cited sources.
// Claims are otherwise opaque to this module.
type claimSources struct {
	Sources []struct {
		URL string `json:"url"`
	} `json:"sources"`
}

// ClaimSourceURLs extracts the unique, well-formed http(s) source URLs
// cited by the claims of a fact-check result, in first-seen order.
func ClaimSourceURLs(claims []model.Claim) []string {
	seen := make(map[string]bool)
	var urls []string

	for _, claim := range claims {
		var cs claimSources
		if err := json.Unmarshal(claim, &cs); err != nil {
			continue
		}
		for _, s := range cs.Sources {
			parsed, err := url.Parse(s.URL)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
				continue
			}
			if !seen[s.URL] {
				seen[s.URL] = true
				urls = append(urls, s.URL)
			}
		}
	}

	return urls
}
