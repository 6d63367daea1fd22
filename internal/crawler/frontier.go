package crawler

import (
	"fmt"
	"sort"

	"github.com/alvmarrod/site-weaver/internal/storage"
)

// Level is the set of URLs eligible for fetching at one depth.
// A level is consumed entirely before the next one starts.
type Level struct {
	Depth int
	URLs  []string
}

// State of the frontier scheduler
type State int

const (
	StateIdle State = iota
	StateLevelActive
	StateLevelDraining
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLevelActive:
		return "level_active"
	case StateLevelDraining:
		return "level_draining"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Termination reasons reported once the scheduler is done
const (
	ReasonFrontierEmpty = "frontier_empty"
	ReasonMaxDepth      = "max_depth"
	ReasonAborted       = "aborted"

	ReasonInvalidSeed     = "invalid_seed"
	ReasonSeedUnreachable = "seed_unreachable"
)

// sortedResults drops undispatched slots and orders the rest by URL so
// next-level claiming does not depend on worker completion order.
func sortedResults(results []*storage.CrawlResult) []*storage.CrawlResult {
	out := make([]*storage.CrawlResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].URL < out[j].URL
	})
	return out
}
