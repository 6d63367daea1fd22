package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alvmarrod/site-weaver/internal/storage"
	"github.com/sirupsen/logrus"
)

// ErrSerialization wraps every failure to write a graph to disk
var ErrSerialization = errors.New("graph serialization failed")

type Writer interface {
	// Write serializes the graph to the specified file
	Write(g *storage.Graph, path string) error
}

// ForPath picks a writer from the file extension. Unknown extensions get GEXF.
func ForPath(path string) Writer {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONWriter()
	case ".csv":
		return NewCSVWriter()
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteWriter()
	default:
		return NewGEXFWriter()
	}
}

// Save writes g to path with the writer matching its extension
func Save(g *storage.Graph, path string) error {
	if g == nil {
		return fmt.Errorf("%w: no graph to write", ErrSerialization)
	}

	if err := ForPath(path).Write(g, path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSerialization, path, err)
	}

	logrus.Infof("Graph written to %s (%d nodes, %d edges)", path, len(g.Nodes), len(g.Edges))
	return nil
}

// SaveWithFallback writes g to path and, if that fails and fallback is set,
// retries once on fallback. It returns the path that was written.
func SaveWithFallback(g *storage.Graph, path, fallback string) (string, error) {
	err := Save(g, path)
	if err == nil {
		return path, nil
	}
	if fallback == "" || fallback == path {
		return "", err
	}

	logrus.Warnf("Failed to write %s: %v. Retrying on %s", path, err, fallback)
	if fallbackErr := Save(g, fallback); fallbackErr != nil {
		return "", errors.Join(err, fallbackErr)
	}
	return fallback, nil
}
