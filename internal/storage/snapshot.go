package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"busnet/internal/network"
)

// ErrNoSnapshot is returned by LoadNetwork when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no network snapshot")

// Metadata keys written by SaveNetwork.
const (
	MetaSavedAt    = "saved_at"
	MetaStopCount  = "stop_count"
	MetaRouteCount = "route_count"
)

// MetaSources lists the region feeds a snapshot was built from, as
// comma-separated code=dir pairs. Written by the build command.
const MetaSources = "sources"

// GetMetadata retrieves a value from the feed_metadata table.
func (db *DB) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM feed_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetMetadata stores a key-value pair in the feed_metadata table.
func (db *DB) SetMetadata(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO feed_metadata (key, value) VALUES (?, ?)`,
		key, value)
	return err
}

// SaveNetwork replaces the stored snapshot with n in a single transaction.
func (db *DB) SaveNetwork(ctx context.Context, n *network.Network) error {
	start := time.Now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"route_stops", "routes", "stops"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertStops(ctx, tx, n); err != nil {
		return err
	}
	if err := insertRoutes(ctx, tx, n.Routes); err != nil {
		return err
	}

	meta := map[string]string{
		MetaSavedAt:    time.Now().UTC().Format(time.RFC3339Nano),
		MetaStopCount:  strconv.Itoa(len(n.Stops)),
		MetaRouteCount: strconv.Itoa(len(n.Routes)),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO feed_metadata (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("set metadata %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.logger.Info("network snapshot saved",
		"stops", len(n.Stops),
		"routes", len(n.Routes),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

func insertStops(ctx context.Context, tx *sql.Tx, n *network.Network) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stops (stop_id, name, city, lat, lon, country) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stops: %w", err)
	}
	defer stmt.Close()

	for _, id := range n.StopIDs() {
		s := n.Stops[id]
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.City,
			nullCoord(s.Lat), nullCoord(s.Lon), s.Country); err != nil {
			return fmt.Errorf("insert stop %s: %w", s.ID, err)
		}
	}
	return nil
}

func insertRoutes(ctx context.Context, tx *sql.Tx, routes []network.Route) error {
	routeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO routes (position, route_id, short_name, long_name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare routes: %w", err)
	}
	defer routeStmt.Close()

	seqStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO route_stops (route_position, seq, stop_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare route_stops: %w", err)
	}
	defer seqStmt.Close()

	for pos, r := range routes {
		if _, err := routeStmt.ExecContext(ctx, pos, r.ID,
			nullString(r.ShortName), nullString(r.LongName)); err != nil {
			return fmt.Errorf("insert route %s: %w", r.ID, err)
		}
		for seq, stopID := range r.Stops {
			if _, err := seqStmt.ExecContext(ctx, pos, seq, stopID); err != nil {
				return fmt.Errorf("insert route %s stop %d: %w", r.ID, seq, err)
			}
		}
	}
	return nil
}

// LoadNetwork reads the stored snapshot. It returns ErrNoSnapshot when the
// database holds no routes.
func (db *DB) LoadNetwork(ctx context.Context) (*network.Network, error) {
	n := network.Empty()

	rows, err := db.QueryContext(ctx, `SELECT stop_id, name, city, lat, lon, country FROM stops`)
	if err != nil {
		return nil, fmt.Errorf("query stops: %w", err)
	}
	for rows.Next() {
		var s network.Stop
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &lat, &lon, &s.Country); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stop: %w", err)
		}
		s.Lat, s.Lon = coord(lat), coord(lon)
		n.Stops[s.ID] = s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stops: %w", err)
	}

	rows, err = db.QueryContext(ctx, `
		SELECT r.position, r.route_id, r.short_name, r.long_name, rs.stop_id
		FROM routes AS r
		LEFT JOIN route_stops AS rs ON rs.route_position = r.position
		ORDER BY r.position, rs.seq`)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	lastPos := -1
	for rows.Next() {
		var (
			pos              int
			id               string
			short, long, sid sql.NullString
		)
		if err := rows.Scan(&pos, &id, &short, &long, &sid); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		if pos != lastPos {
			n.Routes = append(n.Routes, network.Route{
				ID:        id,
				ShortName: stringPtr(short),
				LongName:  stringPtr(long),
				Stops:     []string{},
			})
			lastPos = pos
		}
		if sid.Valid {
			r := &n.Routes[len(n.Routes)-1]
			r.Stops = append(r.Stops, sid.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}

	if len(n.Routes) == 0 {
		return nil, ErrNoSnapshot
	}
	return n, nil
}

func nullCoord(c network.Coord) sql.NullFloat64 {
	return sql.NullFloat64{Float64: float64(c), Valid: c.Valid()}
}

func coord(v sql.NullFloat64) network.Coord {
	if !v.Valid {
		return network.Coord(math.NaN())
	}
	return network.Coord(v.Float64)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
