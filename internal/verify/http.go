package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blogwriter/margins/internal/model"
)

const maxResponseBytes = 2_000_000

// HTTPVerifier talks JSON-over-HTTP to a hosted verification API.
type HTTPVerifier struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewHTTPVerifier creates an HTTP verifier for the given endpoint.
func NewHTTPVerifier(cfg model.VerifierConfig) (*HTTPVerifier, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("verification API base URL is required")
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 25 * time.Second
	}

	return &HTTPVerifier{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}, nil
}

// Name returns the provider name.
func (v *HTTPVerifier) Name() string {
	return "http"
}

// Check POSTs the request to the fact-check endpoint and decodes the result.
func (v *HTTPVerifier) Check(ctx context.Context, req Request) (*model.FactCheckResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/v1/fact-check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if v.userAgent != "" {
		httpReq.Header.Set("User-Agent", v.userAgent)
	}

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("verification request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("verification service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result model.FactCheckResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Timestamp == "" {
		result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return &result, nil
}
