package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Domain scope rules deciding whether a URL belongs to the seed's domain.
const (
	ScopeHost        = "host"
	ScopeSubdomain   = "subdomain"
	ScopeRegistrable = "registrable"
)

// Defaults for unspecified fields
const (
	DefaultURLRegex         = "(http://.*|https://.*)"
	DefaultParallelism      = 10
	DefaultMaxDepth         = 2
	DefaultOutput           = "graph.gexf"
	DefaultRequestTimeoutMs = 2000
	DefaultUserAgent        = "site-weaver/1.0 (+https://github.com/alvmarrod/site-weaver)"
)

// Config holds all runtime configuration parameters
type Config struct {
	StartURL         string   `json:"start_url" yaml:"start_url"`
	URLRegex         string   `json:"url_regex" yaml:"url_regex"`
	ExcludePatterns  []string `json:"exclude_patterns" yaml:"exclude_patterns"`
	Parallelism      int      `json:"parallelism" yaml:"parallelism"`
	MaxDepth         int      `json:"max_depth" yaml:"max_depth"`
	DomainScope      string   `json:"domain_scope" yaml:"domain_scope"`
	MaxSubdomains    int      `json:"max_subdomains" yaml:"max_subdomains"`
	RequestTimeoutMs int      `json:"request_timeout_ms" yaml:"request_timeout_ms"`
	UserAgent        string   `json:"user_agent" yaml:"user_agent"`
	Output           string   `json:"output" yaml:"output"`
	FallbackOutput   string   `json:"fallback_output" yaml:"fallback_output"`
	MetricsPath      string   `json:"metrics_path" yaml:"metrics_path"`
}

// Default returns a configuration with every optional field set.
// MaxDepth 0 is meaningful, so defaults are seeded before decoding
// instead of being filled in for zero values afterwards.
func Default() *Config {
	return &Config{
		URLRegex:         DefaultURLRegex,
		Parallelism:      DefaultParallelism,
		MaxDepth:         DefaultMaxDepth,
		DomainScope:      ScopeHost,
		RequestTimeoutMs: DefaultRequestTimeoutMs,
		UserAgent:        DefaultUserAgent,
		Output:           DefaultOutput,
	}
}

// LoadConfig reads a JSON or YAML file on top of the defaults.
// Callers validate once command line overrides are applied.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}

	return cfg, nil
}

// RequestTimeout returns the per-fetch timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// Validate checks that required fields are present and values are sensible
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StartURL) == "" {
		return ErrNoStartURL
	}
	if c.Parallelism < 1 {
		return ErrInvalidParallelism
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.RequestTimeoutMs < 1 {
		return ErrInvalidTimeout
	}
	if c.MaxSubdomains < 0 {
		return ErrInvalidMaxSubdomains
	}
	if strings.TrimSpace(c.Output) == "" {
		return ErrNoOutput
	}
	switch c.DomainScope {
	case ScopeHost, ScopeSubdomain, ScopeRegistrable:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDomainScope, c.DomainScope)
	}
	if _, err := regexp.Compile(c.URLRegex); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURLRegex, err)
	}
	for _, pattern := range c.ExcludePatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: exclude pattern %q: %v", ErrInvalidURLRegex, pattern, err)
		}
	}
	return nil
}
