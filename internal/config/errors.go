package config

import "errors"

// Configuration errors returned by LoadConfig and Validate. Callers match
// them with errors.Is.
var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnsupportedConfigFormat is returned for files that are neither JSON nor YAML.
	ErrUnsupportedConfigFormat = errors.New("unsupported config format: use .json, .yaml or .yml")

	// ErrNoStartURL is returned when no seed URL is configured.
	ErrNoStartURL = errors.New("start_url is required")

	// ErrInvalidParallelism is returned when fewer than one fetch may be in flight.
	ErrInvalidParallelism = errors.New("parallelism must be >= 1")

	// ErrInvalidMaxDepth is returned for a negative depth bound.
	ErrInvalidMaxDepth = errors.New("max_depth must be >= 0")

	ErrInvalidTimeout       = errors.New("request_timeout_ms must be positive")
	ErrInvalidMaxSubdomains = errors.New("max_subdomains must be >= 0")
	ErrNoOutput             = errors.New("output path is required")

	// ErrInvalidDomainScope is returned when domain_scope is not host, subdomain or registrable.
	ErrInvalidDomainScope = errors.New("invalid domain_scope")

	// ErrInvalidURLRegex is returned when url_regex or an exclude pattern does not compile.
	ErrInvalidURLRegex = errors.New("invalid url pattern")
)
