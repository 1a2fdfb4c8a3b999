package storage

import "fmt"

// migrate creates the snapshot schema if it doesn't exist.
func (db *DB) migrate() error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	db.logger.Debug("database migrations applied")
	return nil
}

var migrations = []string{
	// Stops; NULL coordinates stand for unparsable source values
	`CREATE TABLE IF NOT EXISTS stops (
		stop_id TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		city    TEXT NOT NULL,
		lat     REAL,
		lon     REAL,
		country TEXT NOT NULL
	)`,

	// Routes in network order; names are NULL when the feed had no such column
	`CREATE TABLE IF NOT EXISTS routes (
		position   INTEGER PRIMARY KEY,
		route_id   TEXT NOT NULL,
		short_name TEXT,
		long_name  TEXT
	)`,

	// Ordered stop sequence per route. stop_id is not a foreign key:
	// dangling references are kept as they are.
	`CREATE TABLE IF NOT EXISTS route_stops (
		route_position INTEGER NOT NULL REFERENCES routes(position),
		seq            INTEGER NOT NULL,
		stop_id        TEXT NOT NULL,
		PRIMARY KEY (route_position, seq)
	)`,

	// Snapshot metadata: saved_at and counts from SaveNetwork, sources from the build command
	`CREATE TABLE IF NOT EXISTS feed_metadata (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_routes_route_id ON routes(route_id)`,
	`CREATE INDEX IF NOT EXISTS idx_route_stops_stop ON route_stops(stop_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stops_city ON stops(city)`,
}
