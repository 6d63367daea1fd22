package memory

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/alvmarrod/site-weaver/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleScope(url string) bool {
	return strings.HasPrefix(url, "https://example.com/")
}

func TestMemoryGraph_Record(t *testing.T) {
	t.Parallel()

	g := NewMemoryGraph(exampleScope)
	g.AddSeed("https://example.com/")

	newNodes, newEdges := g.Record(storage.CrawlResult{
		URL:     "https://example.com/",
		Depth:   0,
		Crawled: true,
		Links:   []string{"https://example.com/a", "https://other.org/"},
	})
	assert.Equal(t, 2, newNodes)
	assert.Equal(t, 2, newEdges)

	seed, ok := g.GetNode("https://example.com/")
	require.True(t, ok)
	assert.Equal(t, storage.Node{URL: "https://example.com/", Depth: 0, Crawled: true, InDomain: true}, seed)

	off, ok := g.GetNode("https://other.org/")
	require.True(t, ok)
	assert.Equal(t, 1, off.Depth)
	assert.False(t, off.Crawled)
	assert.False(t, off.InDomain)

	assert.True(t, g.HasEdge("https://example.com/", "https://example.com/a"))
	assert.True(t, g.HasEdge("https://example.com/", "https://other.org/"))
}

func TestMemoryGraph_FirstDiscoveryWins(t *testing.T) {
	t.Parallel()

	g := NewMemoryGraph(exampleScope)
	g.AddSeed("https://example.com/")
	g.Record(storage.CrawlResult{URL: "https://example.com/", Crawled: true, Links: []string{"https://example.com/a"}})
	g.Record(storage.CrawlResult{URL: "https://example.com/a", Depth: 1, Crawled: true, Links: []string{"https://example.com/b", "https://example.com/"}})

	// The seed is linked from depth 1 but keeps depth 0.
	seed, _ := g.GetNode("https://example.com/")
	assert.Equal(t, 0, seed.Depth)

	b, _ := g.GetNode("https://example.com/b")
	assert.Equal(t, 2, b.Depth)
}

func TestMemoryGraph_SelfLoop(t *testing.T) {
	t.Parallel()

	g := NewMemoryGraph(exampleScope)
	g.AddSeed("https://example.com/")
	newNodes, newEdges := g.Record(storage.CrawlResult{
		URL:     "https://example.com/",
		Crawled: true,
		Links:   []string{"https://example.com/"},
	})

	assert.Equal(t, 0, newNodes)
	assert.Equal(t, 1, newEdges)
	nodes, edges := g.GetStats()
	assert.Equal(t, 1, nodes)
	assert.Equal(t, 1, edges)
}

func TestMemoryGraph_CrawledIsMonotonic(t *testing.T) {
	t.Parallel()

	g := NewMemoryGraph(exampleScope)
	g.AddSeed("https://example.com/")
	g.Record(storage.CrawlResult{URL: "https://example.com/", Crawled: true})
	g.Record(storage.CrawlResult{URL: "https://example.com/", Crawled: false})

	seed, _ := g.GetNode("https://example.com/")
	assert.True(t, seed.Crawled)
}

func TestMemoryGraph_DuplicateEdgesCollapse(t *testing.T) {
	t.Parallel()

	g := NewMemoryGraph(exampleScope)
	g.AddSeed("https://example.com/")
	g.Record(storage.CrawlResult{URL: "https://example.com/", Crawled: true, Links: []string{"https://example.com/a"}})
	_, newEdges := g.Record(storage.CrawlResult{URL: "https://example.com/", Crawled: true, Links: []string{"https://example.com/a"}})

	assert.Equal(t, 0, newEdges)
	_, edges := g.GetStats()
	assert.Equal(t, 1, edges)
}

func TestMemoryGraph_ConcurrentRecord(t *testing.T) {
	t.Parallel()

	g := NewMemoryGraph(exampleScope)
	g.AddSeed("https://example.com/")

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g.Record(storage.CrawlResult{
				URL:     fmt.Sprintf("https://example.com/p%d", i),
				Depth:   1,
				Crawled: true,
				Links:   []string{"https://example.com/shared", fmt.Sprintf("https://example.com/own%d", i)},
			})
		}(i)
	}
	wg.Wait()

	nodes, edges := g.GetStats()
	// seed + pages + own links + shared
	assert.Equal(t, 1+workers+workers+1, nodes)
	assert.Equal(t, 2*workers, edges)

	shared, _ := g.GetNode("https://example.com/shared")
	assert.Equal(t, 2, shared.Depth)
}

func TestMemoryGraph_SnapshotIsSorted(t *testing.T) {
	t.Parallel()

	g := NewMemoryGraph(exampleScope)
	g.AddSeed("https://example.com/")
	g.Record(storage.CrawlResult{
		URL:     "https://example.com/",
		Crawled: true,
		Links:   []string{"https://example.com/z", "https://example.com/a"},
	})

	snap := g.Snapshot()
	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, "https://example.com/", snap.Nodes[0].URL)
	assert.Equal(t, "https://example.com/a", snap.Nodes[1].URL)
	assert.Equal(t, "https://example.com/z", snap.Nodes[2].URL)
	assert.Equal(t, []storage.Edge{
		{Source: "https://example.com/", Target: "https://example.com/a"},
		{Source: "https://example.com/", Target: "https://example.com/z"},
	}, snap.Edges)

	// The snapshot is detached from later updates.
	g.Record(storage.CrawlResult{URL: "https://example.com/a", Depth: 1, Crawled: true})
	assert.False(t, snap.Nodes[1].Crawled)
}
