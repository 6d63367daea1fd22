package crawler

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Registry records every URL ever enqueued into a frontier level.
// TryClaim is the single point that prevents a URL being fetched twice.
type Registry struct {
	claimed mapset.Set[string]
}

// NewRegistry creates an empty visited registry
func NewRegistry() *Registry {
	return &Registry{claimed: mapset.NewSet[string]()}
}

// TryClaim claims url if nobody has, reporting whether this call won
func (r *Registry) TryClaim(url string) bool {
	return r.claimed.Add(url)
}

// Contains reports whether url has been claimed
func (r *Registry) Contains(url string) bool {
	return r.claimed.Contains(url)
}

// Len returns the number of claimed URLs
func (r *Registry) Len() int {
	return r.claimed.Cardinality()
}
