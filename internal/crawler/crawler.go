package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/alvmarrod/site-weaver/internal/config"
	"github.com/alvmarrod/site-weaver/internal/memory"
	"github.com/alvmarrod/site-weaver/internal/metrics"
	"github.com/alvmarrod/site-weaver/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidSeed is returned when the seed URL is malformed, has no host
	// or is rejected by the URL pattern.
	ErrInvalidSeed = errors.New("invalid seed URL")

	// ErrSeedUnreachable is returned when the seed page cannot be fetched.
	ErrSeedUnreachable = errors.New("seed URL could not be fetched")

	// ErrAlreadyRun is returned when Run is called on a crawler that has started.
	ErrAlreadyRun = errors.New("crawler has already been run")
)

// Crawler drives a level-synchronous breadth-first crawl from one seed.
// All depth-d fetches complete before any depth-d+1 fetch starts.
type Crawler struct {
	cfg        *config.Config
	normalizer *Normalizer
	filter     *PatternFilter
	limiter    *SubdomainLimiter
	registry   *Registry
	worker     *Worker
	tracker    *metrics.Tracker

	scope *DomainScope
	graph *memory.MemoryGraph

	stateMu sync.RWMutex
	started bool
	state   State
	depth   int
	reason  string

	inFlight     atomic.Int64
	peakInFlight atomic.Int64
}

// Option configures a Crawler
type Option func(*Crawler)

// WithTracker reports crawl progress to tracker
func WithTracker(tracker *metrics.Tracker) Option {
	return func(c *Crawler) {
		c.tracker = tracker
	}
}

// NewCrawler creates a crawler instance around its fetch and extract collaborators
func NewCrawler(cfg *config.Config, fetcher Fetcher, extractor Extractor, opts ...Option) (*Crawler, error) {
	filter, err := NewPatternFilter(cfg.URLRegex, cfg.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	c := &Crawler{
		cfg:        cfg,
		normalizer: NewNormalizer(),
		filter:     filter,
		limiter:    NewSubdomainLimiter(cfg.MaxSubdomains),
		registry:   NewRegistry(),
		state:      StateIdle,
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.tracker == nil {
		c.tracker = metrics.NewTracker()
	}

	c.worker = NewWorker(fetcher, extractor, c.normalizer, c.filter, c.tracker)
	return c, nil
}

// Run crawls until the depth bound is reached, the frontier runs dry or ctx
// is cancelled, and returns the accumulated graph. Cancellation stops new
// dispatches, lets in-flight fetches drain, and still returns the graph.
// Only seed failures are returned as errors.
func (c *Crawler) Run(ctx context.Context) (*storage.Graph, error) {
	c.stateMu.Lock()
	if c.started {
		c.stateMu.Unlock()
		return nil, ErrAlreadyRun
	}
	c.started = true
	c.stateMu.Unlock()

	seed, err := c.prepareSeed()
	if err != nil {
		c.finish(0, ReasonInvalidSeed)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"seed":        seed,
		"max_depth":   c.cfg.MaxDepth,
		"parallelism": c.cfg.Parallelism,
		"scope":       c.cfg.DomainScope,
	}).Info("Starting crawl")

	level := Level{Depth: 0, URLs: []string{seed}}
	for {
		c.setState(StateLevelActive, level.Depth)
		logrus.Infof("Level %d: crawling %d URLs", level.Depth, len(level.URLs))

		results, aborted := c.runLevel(ctx, level)

		c.setState(StateLevelDraining, level.Depth)

		if level.Depth == 0 && results[0] != nil && !results[0].Crawled {
			c.finish(0, ReasonSeedUnreachable)
			return nil, fmt.Errorf("%w: %v", ErrSeedUnreachable, results[0].Err)
		}
		if aborted {
			c.finish(level.Depth, ReasonAborted)
			break
		}
		c.tracker.IncrementLevelsCompleted()

		if level.Depth+1 > c.cfg.MaxDepth {
			c.finish(level.Depth, ReasonMaxDepth)
			break
		}

		next := c.nextLevel(level.Depth+1, results)
		if len(next.URLs) == 0 {
			c.finish(level.Depth, ReasonFrontierEmpty)
			break
		}
		level = next
	}

	nodes, edges := c.graph.GetStats()
	logrus.Infof("Crawl finished (%s): %d nodes, %d edges", c.Reason(), nodes, edges)

	return c.graph.Snapshot(), nil
}

// prepareSeed normalizes and validates the seed, then claims it as level 0
func (c *Crawler) prepareSeed() (string, error) {
	seed, err := c.normalizer.Normalize(c.cfg.StartURL, "")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	scope, err := NewDomainScope(c.cfg.DomainScope, seed)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if !c.filter.Accept(seed) {
		return "", fmt.Errorf("%w: %s is rejected by the url pattern", ErrInvalidSeed, seed)
	}

	c.stateMu.Lock()
	c.scope = scope
	c.graph = memory.NewMemoryGraph(scope.InDomain)
	c.stateMu.Unlock()

	c.registry.TryClaim(seed)
	c.limiter.Add(scope.Host())
	c.graph.AddSeed(seed)
	c.tracker.AddNodesDiscovered(1)
	c.tracker.AddURLsClaimed(1)

	return seed, nil
}

// runLevel dispatches every URL of level with at most Parallelism fetches in
// flight and waits for all of them. Results are indexed like level.URLs; a
// nil slot was never dispatched because ctx was cancelled.
func (c *Crawler) runLevel(ctx context.Context, level Level) ([]*storage.CrawlResult, bool) {
	results := make([]*storage.CrawlResult, len(level.URLs))

	var g errgroup.Group
	g.SetLimit(c.cfg.Parallelism)

	aborted := false
	for i, url := range level.URLs {
		i, url := i, url
		if ctx.Err() != nil {
			logrus.Warnf("Level %d: crawl aborted, %d URLs not dispatched", level.Depth, len(level.URLs)-i)
			aborted = true
			break
		}

		g.Go(func() error {
			c.enterFetch()
			defer c.inFlight.Add(-1)

			res := c.worker.Process(ctx, url, level.Depth)
			newNodes, newEdges := c.graph.Record(res)
			c.tracker.AddNodesDiscovered(newNodes)
			c.tracker.AddEdgesRecorded(newEdges)

			results[i] = &res
			return nil
		})
	}

	// Workers never fail the group; failures live in the results.
	_ = g.Wait()

	return results, aborted || ctx.Err() != nil
}

func (c *Crawler) enterFetch() {
	n := c.inFlight.Add(1)
	for {
		peak := c.peakInFlight.Load()
		if n <= peak || c.peakInFlight.CompareAndSwap(peak, n) {
			return
		}
	}
}

// nextLevel claims the in-domain links discovered by results for depth.
// Results are walked in URL order so claiming is deterministic.
func (c *Crawler) nextLevel(depth int, results []*storage.CrawlResult) Level {
	next := Level{Depth: depth}

	for _, res := range sortedResults(results) {
		for _, link := range res.Links {
			if !c.scope.InDomain(link) {
				continue
			}
			if c.registry.Contains(link) {
				continue
			}

			host, err := ExtractDomain(link)
			if err != nil {
				continue
			}
			if !c.limiter.Add(host) {
				logrus.Debugf("Subdomain limit reached, not queueing %s", link)
				continue
			}

			if c.registry.TryClaim(link) {
				next.URLs = append(next.URLs, link)
				logrus.Debugf("Added to the queue: %s (depth=%d)", link, depth)
			}
		}
	}

	c.tracker.AddURLsClaimed(len(next.URLs))
	return next
}

func (c *Crawler) setState(state State, depth int) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.state = state
	c.depth = depth
}

func (c *Crawler) finish(depth int, reason string) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.state = StateDone
	c.depth = depth
	c.reason = reason
}

// State returns the scheduler state and the depth it applies to
func (c *Crawler) State() (State, int) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state, c.depth
}

// Reason returns why the crawl stopped, empty until it has
func (c *Crawler) Reason() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.reason
}

// Snapshot returns the graph accumulated so far, nil before the seed is set.
// Safe to call while Run is in progress.
func (c *Crawler) Snapshot() *storage.Graph {
	c.stateMu.RLock()
	graph := c.graph
	c.stateMu.RUnlock()
	if graph == nil {
		return nil
	}
	return graph.Snapshot()
}

// Claimed returns how many URLs have entered a frontier level
func (c *Crawler) Claimed() int {
	return c.registry.Len()
}

// PeakInFlight returns the largest number of concurrent fetches observed
func (c *Crawler) PeakInFlight() int {
	return int(c.peakInFlight.Load())
}
