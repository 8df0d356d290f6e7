package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/blogwriter/margins/internal/model"
)

// OpenAIVerifier verifies claims with OpenAI's Chat Completions API.
type OpenAIVerifier struct {
	client *openai.Client
	config model.VerifierConfig
}

// NewOpenAIVerifier creates a new OpenAI-backed verifier.
func NewOpenAIVerifier(cfg model.VerifierConfig) (*OpenAIVerifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIVerifier{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (v *OpenAIVerifier) Name() string {
	return "openai"
}

// Check extracts and verifies claims via a strict-JSON chat completion.
func (v *OpenAIVerifier) Check(ctx context.Context, req Request) (*model.FactCheckResult, error) {
	mdl := v.config.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	maxTokens := v.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	timeout := time.Duration(v.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 25 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := v.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model:     mdl,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: verificationSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildVerificationPrompt(req),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var result model.FactCheckResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("parse verification response: %w", err)
	}

	result.Success = true
	result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if result.TotalClaims == 0 {
		result.TotalClaims = len(result.Claims)
	}

	return &result, nil
}

const verificationSystemPrompt = `You are a fact-checking engine. You extract atomic verifiable claims from text and assess each one against your knowledge.

Respond with a single JSON object of this exact shape:
{
  "claims": [
    {"text": "...", "verdict": "supported"|"refuted"|"insufficient", "confidence": 0.0-1.0, "explanation": "...", "sources": [{"url": "...", "title": "..."}]}
  ],
  "overallConfidence": 0.0-1.0,
  "totalClaims": N,
  "supportedClaims": N,
  "refutedClaims": N,
  "insufficientClaims": N
}

Only include sources you are confident exist. Never invent URLs. Opinions, predictions and subjective statements are not claims.`

func buildVerificationPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Verify the factual claims in the following text. Extract at most %d claims.\n", req.MaxClaims)
	if req.IncludeSources {
		b.WriteString("Include sources for each verdict where you can.\n")
	} else {
		b.WriteString("Omit the sources arrays.\n")
	}
	b.WriteString("\nText:\n")
	b.WriteString(req.Text)
	return b.String()
}
