package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alvmarrod/site-weaver/internal/storage"
	"github.com/gocarina/gocsv"
)

type NodeRow struct {
	URL      string `csv:"url"`
	Depth    int    `csv:"depth"`
	Crawled  bool   `csv:"crawled"`
	InDomain bool   `csv:"in_domain"`
}

type EdgeRow struct {
	Source string `csv:"source"`
	Target string `csv:"target"`
}

// CSVWriter writes nodes to path and edges next to it as <name>_edges.csv
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// EdgesPath returns the edges file written alongside a nodes file
func EdgesPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_edges.csv"
}

func (w *CSVWriter) Write(g *storage.Graph, path string) error {
	nodes := make([]*NodeRow, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, &NodeRow{URL: n.URL, Depth: n.Depth, Crawled: n.Crawled, InDomain: n.InDomain})
	}

	edges := make([]*EdgeRow, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, &EdgeRow{Source: e.Source, Target: e.Target})
	}

	if err := marshalFile(&nodes, path); err != nil {
		return err
	}
	return marshalFile(&edges, EdgesPath(path))
}

func marshalFile(rows interface{}, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
