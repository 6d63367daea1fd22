package memory

import (
	"sort"
	"sync"

	"github.com/alvmarrod/site-weaver/internal/storage"
	"github.com/sirupsen/logrus"
)

// MemoryGraph accumulates crawl results into nodes and edges.
// Record calls from concurrent workers are serialized by mu.
type MemoryGraph struct {
	nodes    map[string]*storage.Node // url -> node
	edges    map[storage.Edge]struct{}
	inDomain func(url string) bool
	mu       sync.RWMutex
}

// NewMemoryGraph creates an empty graph. inDomain tags every node on creation.
func NewMemoryGraph(inDomain func(url string) bool) *MemoryGraph {
	return &MemoryGraph{
		nodes:    make(map[string]*storage.Node),
		edges:    make(map[storage.Edge]struct{}),
		inDomain: inDomain,
	}
}

// AddSeed creates the depth-0 node for the seed URL
func (mg *MemoryGraph) AddSeed(url string) {
	mg.mu.Lock()
	defer mg.mu.Unlock()

	mg.ensureNode(url, 0)
}

// ensureNode returns the node for url, creating it at depth if absent.
// Must be called with mu held.
func (mg *MemoryGraph) ensureNode(url string, depth int) (*storage.Node, bool) {
	if node, exists := mg.nodes[url]; exists {
		return node, false
	}

	node := &storage.Node{
		URL:      url,
		Depth:    depth,
		InDomain: mg.inDomain(url),
	}
	mg.nodes[url] = node
	logrus.Debugf("Added to the graph: Node %s (depth=%d)", url, depth)
	return node, true
}

// Record folds one worker result into the graph and reports how many nodes
// and edges it created. The first discovery of a node fixes its depth, and
// crawled never reverts to false.
func (mg *MemoryGraph) Record(result storage.CrawlResult) (newNodes, newEdges int) {
	mg.mu.Lock()
	defer mg.mu.Unlock()

	source, created := mg.ensureNode(result.URL, result.Depth)
	if created {
		newNodes++
	}
	source.Crawled = source.Crawled || result.Crawled

	for _, link := range result.Links {
		if _, created := mg.ensureNode(link, source.Depth+1); created {
			newNodes++
		}

		edge := storage.Edge{Source: result.URL, Target: link}
		if _, exists := mg.edges[edge]; exists {
			continue
		}
		mg.edges[edge] = struct{}{}
		newEdges++
		logrus.Debugf("Added to the graph: Edge %s -> %s", result.URL, link)
	}

	return newNodes, newEdges
}

// GetNode retrieves a copy of the node for url
func (mg *MemoryGraph) GetNode(url string) (storage.Node, bool) {
	mg.mu.RLock()
	defer mg.mu.RUnlock()

	if node, exists := mg.nodes[url]; exists {
		return *node, true
	}
	return storage.Node{}, false
}

// HasEdge reports whether source links to target
func (mg *MemoryGraph) HasEdge(source, target string) bool {
	mg.mu.RLock()
	defer mg.mu.RUnlock()

	_, exists := mg.edges[storage.Edge{Source: source, Target: target}]
	return exists
}

// GetStats returns current graph statistics
func (mg *MemoryGraph) GetStats() (nodeCount, edgeCount int) {
	mg.mu.RLock()
	defer mg.mu.RUnlock()

	return len(mg.nodes), len(mg.edges)
}

// Snapshot copies the graph into a sorted, read-only form for writers
func (mg *MemoryGraph) Snapshot() *storage.Graph {
	mg.mu.RLock()
	defer mg.mu.RUnlock()

	g := &storage.Graph{
		Nodes: make([]storage.Node, 0, len(mg.nodes)),
		Edges: make([]storage.Edge, 0, len(mg.edges)),
	}

	for _, node := range mg.nodes {
		g.Nodes = append(g.Nodes, *node)
	}
	sort.Slice(g.Nodes, func(i, j int) bool {
		return g.Nodes[i].URL < g.Nodes[j].URL
	})

	for edge := range mg.edges {
		g.Edges = append(g.Edges, edge)
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].Source != g.Edges[j].Source {
			return g.Edges[i].Source < g.Edges[j].Source
		}
		return g.Edges[i].Target < g.Edges[j].Target
	})

	return g
}
