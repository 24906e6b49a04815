package catalogdb

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS buildings (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    city TEXT NOT NULL,
    address TEXT,
    lat REAL NOT NULL,
    lon REAL NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_buildings_location ON buildings (lat, lon);
CREATE INDEX IF NOT EXISTS idx_buildings_city ON buildings (city);
CREATE INDEX IF NOT EXISTS idx_buildings_status ON buildings (status);
`

// Client wraps the SQLite connection to the building catalog.
type Client struct {
	DB      *sql.DB
	Queries *Queries
	config  Config
}

// NewClient opens (or creates) the catalog database and ensures the schema
// exists.
func NewClient(config Config) (*Client, error) {
	db, err := sql.Open("sqlite3", config.DBPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return &Client{
		DB:      db,
		Queries: NewQueries(db),
		config:  config,
	}, nil
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	return c.DB.Close()
}
