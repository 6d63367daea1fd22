package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alvmarrod/site-weaver/internal/storage"
)

// Tracker holds and manages crawl metrics
type Tracker struct {
	mu               sync.Mutex
	data             storage.Metrics
	totalFetchTimeMs int64
	fetchCount       int
}

// NewTracker creates a new metrics tracker
func NewTracker() *Tracker {
	return &Tracker{
		data: storage.Metrics{
			StartTime: time.Now(),
		},
	}
}

// AddNodesDiscovered adds n newly created nodes
func (t *Tracker) AddNodesDiscovered(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.NodesDiscovered += n
}

// IncrementNodesCrawled increments the crawled nodes counter
func (t *Tracker) IncrementNodesCrawled() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.NodesCrawled++
}

// AddEdgesRecorded adds n newly recorded edges
func (t *Tracker) AddEdgesRecorded(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.EdgesRecorded += n
}

// IncrementPagesFetched increments the successful fetch counter
func (t *Tracker) IncrementPagesFetched() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesFetched++
}

// IncrementPagesFailed increments the failed fetch counter
func (t *Tracker) IncrementPagesFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesFailed++
}

// AddURLsClaimed adds n URLs claimed for a frontier level
func (t *Tracker) AddURLsClaimed(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.URLsClaimed += n
}

// IncrementLevelsCompleted marks one more drained frontier level
func (t *Tracker) IncrementLevelsCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.LevelsCompleted++
}

// RecordFetchTime records a page fetch duration
func (t *Tracker) RecordFetchTime(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalFetchTimeMs += duration.Milliseconds()
	t.fetchCount++
}

// GetSnapshot returns a copy of current metrics
func (t *Tracker) GetSnapshot() storage.Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.data
	snapshot.TotalFetchTimeMs = t.totalFetchTimeMs

	if t.fetchCount > 0 {
		snapshot.AvgFetchTimeMs = t.totalFetchTimeMs / int64(t.fetchCount)
	}

	return snapshot
}

// WriteToFile exports metrics to a JSON file
func (t *Tracker) WriteToFile(path, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Finalize metrics
	t.data.EndTime = time.Now()
	t.data.TerminationReason = reason
	t.data.TotalFetchTimeMs = t.totalFetchTimeMs

	if t.fetchCount > 0 {
		t.data.AvgFetchTimeMs = t.totalFetchTimeMs / int64(t.fetchCount)
	}

	jsonData, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}

	return nil
}

// LogProgress formats current metrics for periodic console updates
func (t *Tracker) LogProgress() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fmt.Sprintf("Nodes: %d discovered, %d crawled | Edges: %d | Pages: %d fetched, %d failed | Levels: %d",
		t.data.NodesDiscovered,
		t.data.NodesCrawled,
		t.data.EdgesRecorded,
		t.data.PagesFetched,
		t.data.PagesFailed,
		t.data.LevelsCompleted,
	)
}
