package model

import "time"

// Config is the complete configuration for the assist subsystem.
// Hierarchy (highest to lowest priority): CLI flags, environment variables
// (MARGINS_*), config file (~/.margins/config.yaml), defaults.
type Config struct {
	Selection   SelectionConfig   `yaml:"selection"`
	FactCheck   FactCheckConfig   `yaml:"fact_check"`
	Verifier    VerifierConfig    `yaml:"verifier"`
	Cache       CacheConfig       `yaml:"cache"`
	Sources     SourcesConfig     `yaml:"sources"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// SelectionConfig tunes selection observation and menu geometry.
type SelectionConfig struct {
	Debounce           time.Duration `yaml:"debounce"`             // delay before evaluating a selection burst
	MinSelectionLength int           `yaml:"min_selection_length"` // shorter selections are ignored
	MinMargin          float64       `yaml:"min_margin"`           // px kept between menu and viewport edges
	MenuWidthEstimate  float64       `yaml:"menu_width_estimate"`  // px, used to clamp the anchor on the right
	VerticalOffset     float64       `yaml:"vertical_offset"`      // px the menu sits above the selection
}

// FactCheckConfig tunes the asynchronous fact-check workflow.
type FactCheckConfig struct {
	Tick    time.Duration `yaml:"tick"`    // cadence of the cosmetic progress sequence
	Timeout time.Duration `yaml:"timeout"` // hard wall-clock deadline for one check
}

// VerifierConfig configures the claim-verification client.
type VerifierConfig struct {
	Provider  string  `yaml:"provider"` // "openai", "http"
	Model     string  `yaml:"model"`    // model name for LLM-backed providers
	APIKey    string  `yaml:"-"`        // from env only, never written to disk
	BaseURL   string  `yaml:"base_url"` // endpoint for "http", override for "openai"
	UserAgent string  `yaml:"user_agent"`
	Timeout   int     `yaml:"timeout"` // seconds per request
	MaxTokens int     `yaml:"max_tokens"`
	MaxClaims int     `yaml:"max_claims"` // cap sent with every verification request
	RateLimit float64 `yaml:"rate_limit"` // verification requests per second (0 = unlimited)
	RateBurst int     `yaml:"rate_burst"`
}

// CacheConfig configures the in-memory verification cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// SourcesConfig configures claim-source link validation.
type SourcesConfig struct {
	Timeout       time.Duration `yaml:"timeout"` // per-URL HTTP timeout
	RespectRobots bool          `yaml:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy"`
}

// ConcurrencyConfig tunes worker counts.
type ConcurrencyConfig struct {
	Workers           int `yaml:"workers"`            // batch fact-check workers
	ValidationWorkers int `yaml:"validation_workers"` // concurrent source-link validations
}

// OutputConfig tunes CLI output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		Selection: SelectionConfig{
			Debounce:           150 * time.Millisecond,
			MinSelectionLength: 10,
			MinMargin:          8,
			MenuWidthEstimate:  280,
			VerticalOffset:     60,
		},
		FactCheck: FactCheckConfig{
			Tick:    2 * time.Second,
			Timeout: 30 * time.Second,
		},
		Verifier: VerifierConfig{
			Provider:  "http",
			UserAgent: "Margins/0.1 (+https://github.com/blogwriter/margins)",
			Timeout:   25,
			MaxTokens: 2000,
			MaxClaims: 10,
			RateLimit: 1,
			RateBurst: 3,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Sources: SourcesConfig{
			Timeout:       10 * time.Second,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			ValidationWorkers: 10,
		},
		Output: OutputConfig{},
	}
}
