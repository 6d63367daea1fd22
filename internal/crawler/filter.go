package crawler

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/alvmarrod/site-weaver/internal/config"
	"golang.org/x/net/publicsuffix"
)

// PatternFilter decides which discovered URLs are considered at all.
// The include pattern must match at the start of the URL; any exclude
// pattern matching anywhere rejects it.
type PatternFilter struct {
	include  *regexp.Regexp
	excludes []*regexp.Regexp
}

// NewPatternFilter compiles the include pattern and exclude patterns
func NewPatternFilter(include string, excludes []string) (*PatternFilter, error) {
	re, err := regexp.Compile(`^(?:` + include + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid url pattern %q: %w", include, err)
	}

	f := &PatternFilter{include: re}
	for _, pattern := range excludes {
		ex, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.excludes = append(f.excludes, ex)
	}
	return f, nil
}

// Accept reports whether rawURL passes the filter
func (f *PatternFilter) Accept(rawURL string) bool {
	if !f.include.MatchString(rawURL) {
		return false
	}
	for _, ex := range f.excludes {
		if ex.MatchString(rawURL) {
			return false
		}
	}
	return true
}

// ExtractDomain extracts the lower-cased host (with non-default port) from a URL string
func ExtractDomain(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	return strings.ToLower(parsed.Host), nil
}

// ExtractRootDomain extracts the registrable domain from a host
// Example: blog.example.co.uk -> example.co.uk
func ExtractRootDomain(host string) string {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}
	hostname = strings.Trim(hostname, "[]")
	if net.ParseIP(hostname) != nil {
		return hostname
	}
	root, err := publicsuffix.EffectiveTLDPlusOne(hostname)
	if err != nil {
		// localhost and bare suffixes are their own root
		return hostname
	}
	return root
}

// DomainScope decides whether a URL belongs to the seed's domain
type DomainScope struct {
	mode     string
	seedHost string
	seedRoot string
}

// NewDomainScope builds a scope rule around the seed's host
func NewDomainScope(mode, seedURL string) (*DomainScope, error) {
	host, err := ExtractDomain(seedURL)
	if err != nil {
		return nil, err
	}
	if host == "" {
		return nil, fmt.Errorf("seed %q has no host", seedURL)
	}

	switch mode {
	case config.ScopeHost, config.ScopeSubdomain, config.ScopeRegistrable:
	default:
		return nil, fmt.Errorf("unknown domain scope %q", mode)
	}

	return &DomainScope{
		mode:     mode,
		seedHost: host,
		seedRoot: ExtractRootDomain(host),
	}, nil
}

// InDomain reports whether rawURL is inside the scope
func (s *DomainScope) InDomain(rawURL string) bool {
	host, err := ExtractDomain(rawURL)
	if err != nil || host == "" {
		return false
	}

	switch s.mode {
	case config.ScopeSubdomain:
		return host == s.seedHost || strings.HasSuffix(host, "."+s.seedHost)
	case config.ScopeRegistrable:
		return ExtractRootDomain(host) == s.seedRoot
	default:
		return host == s.seedHost
	}
}

// Host returns the seed host the scope was built from
func (s *DomainScope) Host() string {
	return s.seedHost
}
