// Package verify provides clients for the external claim-verification
// service boundary, plus caching and rate-limiting wrappers.
package verify

import (
	"context"

	"github.com/blogwriter/margins/internal/model"
)

// Request is the payload sent to the verification service.
type Request struct {
	Text           string `json:"text"`
	IncludeSources bool   `json:"includeSources"`
	MaxClaims      int    `json:"maxClaims"`
}

// Verifier is the claim-verification service boundary. Implementations
// return either a FactCheckResult-shaped payload or an error carrying a
// human-readable message; the orchestrator converts both into terminal
// results.
type Verifier interface {
	// Name returns the provider name.
	Name() string

	// Check verifies the claims in the request text.
	Check(ctx context.Context, req Request) (*model.FactCheckResult, error)
}
