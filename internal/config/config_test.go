package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, DefaultURLRegex, cfg.URLRegex)
	assert.Equal(t, 10, cfg.Parallelism)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, "graph.gexf", cfg.Output)
	assert.Equal(t, ScopeHost, cfg.DomainScope)
	assert.Equal(t, int64(2000), cfg.RequestTimeout().Milliseconds())

	// Defaults are valid once a seed is provided.
	assert.ErrorIs(t, cfg.Validate(), ErrNoStartURL)
	cfg.StartURL = "https://example.com/"
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.json", `{
		"start_url": "https://example.com/",
		"max_depth": 0,
		"parallelism": 3,
		"exclude_patterns": ["\\.pdf$"]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", cfg.StartURL)
	assert.Equal(t, 0, cfg.MaxDepth, "explicit zero depth must survive defaults")
	assert.Equal(t, 3, cfg.Parallelism)
	assert.Equal(t, []string{`\.pdf$`}, cfg.ExcludePatterns)
	assert.Equal(t, DefaultOutput, cfg.Output, "unset fields keep defaults")
}

func TestLoadConfig_YAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "config.yaml", `
start_url: https://example.com/
domain_scope: subdomain
max_subdomains: 4
output: site.json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ScopeSubdomain, cfg.DomainScope)
	assert.Equal(t, 4, cfg.MaxSubdomains)
	assert.Equal(t, "site.json", cfg.Output)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig(writeFile(t, "config.toml", "start_url = 'x'"))
		assert.ErrorIs(t, err, ErrUnsupportedConfigFormat)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig(writeFile(t, "config.json", "{"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "zero parallelism", modify: func(c *Config) { c.Parallelism = 0 }, want: ErrInvalidParallelism},
		{name: "negative depth", modify: func(c *Config) { c.MaxDepth = -1 }, want: ErrInvalidMaxDepth},
		{name: "zero timeout", modify: func(c *Config) { c.RequestTimeoutMs = 0 }, want: ErrInvalidTimeout},
		{name: "negative subdomains", modify: func(c *Config) { c.MaxSubdomains = -2 }, want: ErrInvalidMaxSubdomains},
		{name: "empty output", modify: func(c *Config) { c.Output = " " }, want: ErrNoOutput},
		{name: "unknown scope", modify: func(c *Config) { c.DomainScope = "planet" }, want: ErrInvalidDomainScope},
		{name: "bad regex", modify: func(c *Config) { c.URLRegex = "(" }, want: ErrInvalidURLRegex},
		{name: "bad exclude", modify: func(c *Config) { c.ExcludePatterns = []string{"["} }, want: ErrInvalidURLRegex},
		{name: "zero depth is valid", modify: func(c *Config) { c.MaxDepth = 0 }, want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			cfg.StartURL = "https://example.com/"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
