// Package sqlite persists raw visit records and built networks in a single SQLite file.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS raw_records (
	seq INTEGER PRIMARY KEY,
	event_id TEXT,
	vessel_id TEXT,
	port_id TEXT,
	start TEXT,
	data JSON NOT NULL
);

CREATE TABLE IF NOT EXISTS datasets (
	name TEXT PRIMARY KEY,
	stats JSON NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ports (
	dataset TEXT NOT NULL,
	seq INTEGER NOT NULL,
	port_id TEXT NOT NULL,
	port_name TEXT,
	port_flag TEXT,
	port_lat REAL NOT NULL,
	port_lon REAL NOT NULL,
	visits INTEGER NOT NULL,
	vessels_unique INTEGER NOT NULL,
	total_duration_hrs REAL NOT NULL,
	avg_distance_shore_km REAL NOT NULL,
	in_strength REAL NOT NULL,
	out_strength REAL NOT NULL,
	total_strength REAL NOT NULL,
	PRIMARY KEY (dataset, port_id),
	FOREIGN KEY (dataset) REFERENCES datasets(name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS edges (
	dataset TEXT NOT NULL,
	seq INTEGER NOT NULL,
	port_id_from TEXT NOT NULL,
	port_id_to TEXT NOT NULL,
	trips INTEGER NOT NULL,
	vessels_unique INTEGER NOT NULL,
	from_name TEXT,
	from_lat REAL NOT NULL,
	from_lon REAL NOT NULL,
	to_name TEXT,
	to_lat REAL NOT NULL,
	to_lon REAL NOT NULL,
	median_delta_hours REAL NOT NULL,
	PRIMARY KEY (dataset, port_id_from, port_id_to),
	FOREIGN KEY (dataset) REFERENCES datasets(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_raw_records_vessel ON raw_records(vessel_id);
CREATE INDEX IF NOT EXISTS idx_ports_seq ON ports(dataset, seq);
CREATE INDEX IF NOT EXISTS idx_edges_seq ON edges(dataset, seq);
`

// DB is an open SQLite database with the portnet schema applied.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
// PRAGMAs are passed in the DSN so every pooled connection gets them.
func Open(path string) (*DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}
