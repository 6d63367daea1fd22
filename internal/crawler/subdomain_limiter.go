package crawler

import (
	"sync"
)

// SubdomainLimiter caps how many distinct hosts under one registrable domain
// may enter the frontier. A limit of 0 disables the cap.
type SubdomainLimiter struct {
	maxPerRoot int
	mu         sync.RWMutex
	// Map: rootDomain -> set of hosts
	subdomains map[string]map[string]bool
}

// NewSubdomainLimiter creates a new subdomain limiter
func NewSubdomainLimiter(maxPerRoot int) *SubdomainLimiter {
	return &SubdomainLimiter{
		maxPerRoot: maxPerRoot,
		subdomains: make(map[string]map[string]bool),
	}
}

// CanAdd checks if a host can be added without exceeding the limit
// Does NOT modify state - use Add() to register the host
func (sl *SubdomainLimiter) CanAdd(host string) bool {
	if sl.maxPerRoot <= 0 {
		return true
	}
	rootDomain := ExtractRootDomain(host)

	sl.mu.RLock()
	defer sl.mu.RUnlock()

	subdomainSet, exists := sl.subdomains[rootDomain]
	if !exists {
		return true
	}
	if subdomainSet[host] {
		return true
	}
	return len(subdomainSet) < sl.maxPerRoot
}

// Add registers a host with the limiter
// Returns true if added (or already present), false if limit exceeded
func (sl *SubdomainLimiter) Add(host string) bool {
	rootDomain := ExtractRootDomain(host)

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.subdomains[rootDomain] == nil {
		sl.subdomains[rootDomain] = make(map[string]bool)
	}

	subdomainSet := sl.subdomains[rootDomain]
	if subdomainSet[host] {
		return true
	}

	if sl.maxPerRoot > 0 && len(subdomainSet) >= sl.maxPerRoot {
		return false
	}

	subdomainSet[host] = true
	return true
}

// Count returns the number of hosts registered for a root domain
func (sl *SubdomainLimiter) Count(rootDomain string) int {
	sl.mu.RLock()
	defer sl.mu.RUnlock()

	if subdomainSet, exists := sl.subdomains[rootDomain]; exists {
		return len(subdomainSet)
	}
	return 0
}
