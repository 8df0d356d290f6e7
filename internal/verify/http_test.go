package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blogwriter/margins/internal/model"
)

func TestHTTPVerifier_Check_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/fact-check" {
			t.Errorf("path = %s, want /v1/fact-check", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !req.IncludeSources || req.MaxClaims != 10 {
			t.Errorf("request = %+v, want includeSources=true maxClaims=10", req)
		}

		_ = json.NewEncoder(w).Encode(model.FactCheckResult{
			Success:           true,
			Claims:            []model.Claim{json.RawMessage(`{"text":"water boils at 100C at sea level","verdict":"supported"}`)},
			OverallConfidence: 0.92,
			TotalClaims:       1,
			SupportedClaims:   1,
			Timestamp:         "2026-03-04T05:06:07Z",
		})
	}))
	defer server.Close()

	v, err := NewHTTPVerifier(model.VerifierConfig{BaseURL: server.URL, Timeout: 5, UserAgent: "test"})
	if err != nil {
		t.Fatalf("NewHTTPVerifier: %v", err)
	}

	result, err := v.Check(context.Background(), Request{
		Text:           "water boils at 100C at sea level",
		IncludeSources: true,
		MaxClaims:      10,
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.Success || result.SupportedClaims != 1 || len(result.Claims) != 1 {
		t.Errorf("result = %+v", result)
	}
	if result.Timestamp != "2026-03-04T05:06:07Z" {
		t.Errorf("timestamp altered: %s", result.Timestamp)
	}
}

func TestHTTPVerifier_Check_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "verification backend overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	v, err := NewHTTPVerifier(model.VerifierConfig{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("NewHTTPVerifier: %v", err)
	}

	_, err = v.Check(context.Background(), Request{Text: "anything", MaxClaims: 10})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "overloaded") {
		t.Errorf("error %q should carry status and body", err)
	}
}

func TestHTTPVerifier_RequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPVerifier(model.VerifierConfig{}); err == nil {
		t.Error("expected error without base URL")
	}
}

func TestHTTPVerifier_FillsMissingTimestamp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.FactCheckResult{Success: true})
	}))
	defer server.Close()

	v, _ := NewHTTPVerifier(model.VerifierConfig{BaseURL: server.URL, Timeout: 5})
	result, err := v.Check(context.Background(), Request{Text: "anything", MaxClaims: 10})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Timestamp == "" {
		t.Error("expected timestamp to be filled when the service omits one")
	}
}
