package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Claim is an atomic, independently verifiable assertion as returned by the
// verification service. Its shape is owned by the service; this module
// passes it through unmodified.
type Claim = json.RawMessage

// FactCheckResult is the terminal outcome of one fact-check attempt.
// Exactly one result is produced per attempt, by the success, failure or
// timeout path, and it replaces any prior result.
type FactCheckResult struct {
	Success            bool    `json:"success"`
	Claims             []Claim `json:"claims"`
	OverallConfidence  float64 `json:"overallConfidence"`
	TotalClaims        int     `json:"totalClaims"`
	SupportedClaims    int     `json:"supportedClaims"`
	RefutedClaims      int     `json:"refutedClaims"`
	InsufficientClaims int     `json:"insufficientClaims"`
	Timestamp          string  `json:"timestamp"` // ISO-8601
	Error              string  `json:"error,omitempty"`
}

// ProgressStep is one entry of the fixed cosmetic progress sequence shown
// while a check is in flight. It is not derived from the remote operation's
// real progress; the remote call provides no progress signal.
type ProgressStep struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// TimeoutResult builds the terminal result for a check that exceeded the
// hard deadline. Counts stay zero: success==false implies no claims.
func TimeoutResult(now time.Time, deadline time.Duration) FactCheckResult {
	return FactCheckResult{
		Success:   false,
		Timestamp: now.UTC().Format(time.RFC3339),
		Error: fmt.Sprintf("Fact check timed out after %d seconds. Please try again with shorter text.",
			int(deadline.Seconds())),
	}
}

// FailureResult builds the terminal result for a verification call that was
// rejected by the service or failed in transit.
func FailureResult(now time.Time, cause error) FactCheckResult {
	return FactCheckResult{
		Success:   false,
		Timestamp: now.UTC().Format(time.RFC3339),
		Error:     "Failed to check facts: " + cause.Error(),
	}
}
