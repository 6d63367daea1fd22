package crawler

import (
	"testing"

	"github.com/alvmarrod/site-weaver/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternFilter_Accept(t *testing.T) {
	t.Parallel()

	f, err := NewPatternFilter(config.DefaultURLRegex, []string{`\.pdf$`, `/logout`})
	require.NoError(t, err)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/", true},
		{"http://example.com/page", true},
		{"mailto:someone@example.com", false},
		{"javascript:void(0)", false},
		{"ftp://example.com/file", false},
		{"https://example.com/report.pdf", false},
		{"https://example.com/logout?next=/", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Accept(tt.url), tt.url)
	}
}

func TestPatternFilter_AnchoredAtStart(t *testing.T) {
	t.Parallel()

	f, err := NewPatternFilter(`https://`, nil)
	require.NoError(t, err)

	assert.True(t, f.Accept("https://example.com/"))
	assert.False(t, f.Accept("http://example.com/?next=https://example.com/"))
}

func TestPatternFilter_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewPatternFilter("(", nil)
	assert.Error(t, err)

	_, err = NewPatternFilter(config.DefaultURLRegex, []string{"["})
	assert.Error(t, err)
}

func TestExtractRootDomain(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"blog.example.com":    "example.com",
		"a.b.example.co.uk":   "example.co.uk",
		"example.com:8080":    "example.com",
		"127.0.0.1:8080":      "127.0.0.1",
		"10.0.0.1":            "10.0.0.1",
		"localhost":           "localhost",
		"[::1]:443":           "::1",
		"deep.sub.example.io": "example.io",
	}

	for host, want := range tests {
		assert.Equal(t, want, ExtractRootDomain(host), host)
	}
}

func TestDomainScope_InDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode string
		url  string
		want bool
	}{
		{config.ScopeHost, "https://example.com/a", true},
		{config.ScopeHost, "http://example.com/a", true},
		{config.ScopeHost, "https://blog.example.com/", false},
		{config.ScopeHost, "https://example.com:8443/", false},
		{config.ScopeHost, "https://other.org/", false},
		{config.ScopeHost, "mailto:someone@example.com", false},
		{config.ScopeSubdomain, "https://blog.example.com/", true},
		{config.ScopeSubdomain, "https://badexample.com/", false},
		{config.ScopeRegistrable, "https://blog.example.com/", true},
		{config.ScopeRegistrable, "https://other.org/", false},
	}

	for _, tt := range tests {
		scope, err := NewDomainScope(tt.mode, "https://example.com/")
		require.NoError(t, err)
		assert.Equal(t, tt.want, scope.InDomain(tt.url), "%s %s", tt.mode, tt.url)
	}
}

func TestDomainScope_SubdomainOfSubdomainSeed(t *testing.T) {
	t.Parallel()

	scope, err := NewDomainScope(config.ScopeSubdomain, "https://docs.example.com/")
	require.NoError(t, err)

	assert.True(t, scope.InDomain("https://v2.docs.example.com/"))
	assert.False(t, scope.InDomain("https://example.com/"))

	registrable, err := NewDomainScope(config.ScopeRegistrable, "https://docs.example.com/")
	require.NoError(t, err)
	assert.True(t, registrable.InDomain("https://example.com/"))
}

func TestNewDomainScope_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewDomainScope(config.ScopeHost, "mailto:someone@example.com")
	assert.Error(t, err)

	_, err = NewDomainScope("galaxy", "https://example.com/")
	assert.Error(t, err)
}

func TestSubdomainLimiter(t *testing.T) {
	t.Parallel()

	limiter := NewSubdomainLimiter(2)
	assert.True(t, limiter.Add("example.com"))
	assert.True(t, limiter.Add("blog.example.com"))
	assert.False(t, limiter.CanAdd("shop.example.com"))
	assert.False(t, limiter.Add("shop.example.com"))

	// Already registered hosts and other roots are unaffected.
	assert.True(t, limiter.Add("blog.example.com"))
	assert.True(t, limiter.Add("other.org"))
	assert.Equal(t, 2, limiter.Count("example.com"))
	assert.Equal(t, 1, limiter.Count("other.org"))
	assert.Equal(t, 0, limiter.Count("unknown.net"))
}

func TestSubdomainLimiter_Unlimited(t *testing.T) {
	t.Parallel()

	limiter := NewSubdomainLimiter(0)
	for _, host := range []string{"a.example.com", "b.example.com", "c.example.com", "d.example.com"} {
		assert.True(t, limiter.CanAdd(host))
		assert.True(t, limiter.Add(host))
	}
	assert.Equal(t, 4, limiter.Count("example.com"))
}
