package export

import (
	"github.com/alvmarrod/site-weaver/internal/storage"
)

// SQLiteWriter replaces the graph held in a SQLite database file
type SQLiteWriter struct{}

func NewSQLiteWriter() *SQLiteWriter {
	return &SQLiteWriter{}
}

func (w *SQLiteWriter) Write(g *storage.Graph, path string) error {
	store, err := storage.NewStorage(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.WriteGraph(g)
}
