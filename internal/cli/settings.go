package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/verify"
)

// buildConfig layers the command-line flags over the defaults and the
// config file.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	if provider != "" {
		cfg.Verifier.Provider = provider
	}
	if providerModel != "" {
		cfg.Verifier.Model = providerModel
	}
	if baseURL != "" {
		cfg.Verifier.BaseURL = baseURL
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	return cfg
}

// buildVerifier creates the configured verifier, pulling API keys from the
// environment. Keys never come from the config file.
func buildVerifier(cfg *model.Config) (verify.Verifier, error) {
	switch cfg.Verifier.Provider {
	case "openai":
		cfg.Verifier.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Verifier.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "http", "":
		if cfg.Verifier.BaseURL == "" {
			cfg.Verifier.BaseURL = os.Getenv("MARGINS_VERIFY_URL")
		}
		if cfg.Verifier.BaseURL == "" {
			return nil, fmt.Errorf("no verification endpoint configured (set --base-url or MARGINS_VERIFY_URL)")
		}
	}

	return verify.NewVerifier(cfg.Verifier, cfg.Cache)
}

func cmdContext() context.Context {
	return context.Background()
}
