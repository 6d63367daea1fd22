package storage

import "time"

// Node represents a URL in the crawl graph
type Node struct {
	URL      string `json:"url"`
	Depth    int    `json:"depth"`
	Crawled  bool   `json:"crawled"`
	InDomain bool   `json:"in_domain"`
}

// Edge represents a directed link from one page to another
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a read-only snapshot of the crawl graph, handed to writers.
// Nodes are sorted by URL and edges by (source, target).
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// CrawlResult is what a worker reports for one dispatched URL
type CrawlResult struct {
	URL     string
	Depth   int
	Crawled bool
	Err     error
	Links   []string
}

// Metrics tracks crawl statistics for export on exit
type Metrics struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	NodesDiscovered   int       `json:"nodes_discovered"`
	NodesCrawled      int       `json:"nodes_crawled"`
	EdgesRecorded     int       `json:"edges_recorded"`
	PagesFetched      int       `json:"pages_fetched"`
	PagesFailed       int       `json:"pages_failed"`
	URLsClaimed       int       `json:"urls_claimed"`
	LevelsCompleted   int       `json:"levels_completed"`
	TotalFetchTimeMs  int64     `json:"total_fetch_time_ms"`
	AvgFetchTimeMs    int64     `json:"avg_fetch_time_ms"`
	TerminationReason string    `json:"termination_reason"`
}
