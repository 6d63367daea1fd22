package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage handles all database operations
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance, opening/creating the DB and initializing schema
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema creates tables and indices if they don't exist
func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		node_id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		depth INTEGER NOT NULL,
		crawled INTEGER NOT NULL DEFAULT 0,
		in_domain INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS edges (
		edge_id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_node_id INTEGER NOT NULL,
		to_node_id INTEGER NOT NULL,
		FOREIGN KEY (from_node_id) REFERENCES nodes(node_id),
		FOREIGN KEY (to_node_id) REFERENCES nodes(node_id),
		UNIQUE(from_node_id, to_node_id)
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_url ON nodes(url);
	CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_node_id);
	CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_node_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// WriteGraph replaces the stored graph with g in a single transaction.
// Every edge endpoint must be present in g.Nodes.
func (s *Storage) WriteGraph(g *Graph) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM edges"); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}

	nodeStmt, err := tx.Prepare(`
		INSERT INTO nodes (url, depth, crawled, in_domain)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			crawled = MAX(nodes.crawled, EXCLUDED.crawled)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	ids := make(map[string]int64, len(g.Nodes))
	for _, node := range g.Nodes {
		if _, err := nodeStmt.Exec(node.URL, node.Depth, node.Crawled, node.InDomain); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", node.URL, err)
		}
		var nodeID int64
		if err := tx.QueryRow("SELECT node_id FROM nodes WHERE url = ?", node.URL).Scan(&nodeID); err != nil {
			return fmt.Errorf("failed to retrieve node_id: %w", err)
		}
		ids[node.URL] = nodeID
	}

	edgeStmt, err := tx.Prepare(`
		INSERT INTO edges (from_node_id, to_node_id)
		VALUES (?, ?)
		ON CONFLICT(from_node_id, to_node_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, edge := range g.Edges {
		fromID, fromExists := ids[edge.Source]
		toID, toExists := ids[edge.Target]
		if !fromExists || !toExists {
			return fmt.Errorf("edge %s -> %s references an unknown node", edge.Source, edge.Target)
		}
		if _, err := edgeStmt.Exec(fromID, toID); err != nil {
			return fmt.Errorf("failed to insert edge %s -> %s: %w", edge.Source, edge.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit graph: %w", err)
	}
	return nil
}

// GetNode retrieves a node by URL, returns nil if not found
func (s *Storage) GetNode(url string) (*Node, error) {
	var node Node
	err := s.db.QueryRow(`
		SELECT url, depth, crawled, in_domain
		FROM nodes
		WHERE url = ?
	`, url).Scan(&node.URL, &node.Depth, &node.Crawled, &node.InDomain)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	return &node, nil
}

// LoadGraph reads the stored graph back, ordered the same way as a snapshot
func (s *Storage) LoadGraph() (*Graph, error) {
	g := &Graph{Nodes: []Node{}, Edges: []Edge{}}

	rows, err := s.db.Query(`
		SELECT url, depth, crawled, in_domain
		FROM nodes
		ORDER BY url ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var node Node
		if err := rows.Scan(&node.URL, &node.Depth, &node.Crawled, &node.InDomain); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		g.Nodes = append(g.Nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}

	edgeRows, err := s.db.Query(`
		SELECT src.url, dst.url
		FROM edges e
		JOIN nodes src ON src.node_id = e.from_node_id
		JOIN nodes dst ON dst.node_id = e.to_node_id
		ORDER BY src.url ASC, dst.url ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var edge Edge
		if err := edgeRows.Scan(&edge.Source, &edge.Target); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		g.Edges = append(g.Edges, edge)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}

	return g, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
