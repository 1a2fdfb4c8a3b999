// Package ingest turns regional feed directories into one merged network.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"busnet/internal/gtfs"
	"busnet/internal/network"
)

// Region describes one feed directory to load.
type Region struct {
	Dir  string // directory holding the feed tables
	Code string // short code used to scope identifiers, e.g. "EU"
	Tag  string // optional disambiguation suffix, e.g. "(NA)"
}

// Loader parses a region directory into stops and materialized routes.
type Loader struct {
	lookups *Lookups
	logger  *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(lookups *Lookups, logger *slog.Logger) *Loader {
	return &Loader{lookups: lookups, logger: logger}
}

// Load reads one region. A missing directory or missing table yields an empty
// network and a warning, not an error. Errors are reserved for tables that
// exist but cannot be read.
func (l *Loader) Load(region Region) (*network.Network, error) {
	logger := l.logger.With("region", region.Code, "dir", region.Dir)
	logger.Info("processing region")

	missing, err := gtfs.MissingFiles(region.Dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("skipped region: directory does not exist")
		return network.Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", region.Code, err)
	}
	if len(missing) > 0 {
		logger.Warn("skipped region: missing required files", "missing", strings.Join(missing, ", "))
		return network.Empty(), nil
	}

	stops, err := l.loadStops(region)
	if err != nil {
		return nil, fmt.Errorf("region %s: %s: %w", region.Code, gtfs.StopsFile, err)
	}
	routes, err := l.loadRoutes(region)
	if err != nil {
		return nil, fmt.Errorf("region %s: %s: %w", region.Code, gtfs.RoutesFile, err)
	}

	m := newMaterializer()
	if err := l.loadTrips(region, m); err != nil {
		return nil, fmt.Errorf("region %s: %s: %w", region.Code, gtfs.TripsFile, err)
	}
	if err := l.streamStopTimes(region, m); err != nil {
		return nil, fmt.Errorf("region %s: %s: %w", region.Code, gtfs.StopTimesFile, err)
	}

	n := &network.Network{Stops: stops, Routes: m.apply(routes)}
	logger.Info("region loaded", "stops", len(n.Stops), "routes", len(n.Routes))
	return n, nil
}

func (l *Loader) loadStops(region Region) (map[string]network.Stop, error) {
	table, err := gtfs.ParseFile[gtfs.Stop](filepath.Join(region.Dir, gtfs.StopsFile))
	if err != nil {
		return nil, err
	}

	stops := make(map[string]network.Stop, len(table.Rows))
	for _, s := range table.Rows {
		if s.StopID == "" {
			continue
		}
		id := ScopedID(region.Code, s.StopID)
		name := s.StopName
		city := l.lookups.CityLabel(s.StopName)
		if region.Tag != "" {
			name = name + " " + region.Tag
			city = city + " " + region.Tag
		}
		stops[id] = network.Stop{
			ID:      id,
			Name:    name,
			City:    city,
			Lat:     network.ParseCoord(s.StopLat),
			Lon:     network.ParseCoord(s.StopLon),
			Country: l.lookups.Country(s.StopTimezone, s.StopTimezone != "", region.Tag),
		}
	}
	return stops, nil
}

func (l *Loader) loadRoutes(region Region) (*orderedMap[string, network.Route], error) {
	table, err := gtfs.ParseFile[gtfs.Route](filepath.Join(region.Dir, gtfs.RoutesFile))
	if err != nil {
		return nil, err
	}

	hasShort := table.Has("route_short_name")
	hasLong := table.Has("route_long_name")
	routes := newOrderedMap[string, network.Route]()
	for _, r := range table.Rows {
		if r.RouteID == "" {
			continue
		}
		route := network.Route{
			ID:    ScopedID(region.Code, r.RouteID),
			Stops: []string{},
		}
		if hasShort {
			route.ShortName = &r.RouteShortName
		}
		if hasLong {
			route.LongName = &r.RouteLongName
		}
		routes.Set(route.ID, route)
	}
	return routes, nil
}

func (l *Loader) loadTrips(region Region, m *materializer) error {
	table, err := gtfs.ParseFile[gtfs.Trip](filepath.Join(region.Dir, gtfs.TripsFile))
	if err != nil {
		return err
	}
	for _, t := range table.Rows {
		if t.TripID == "" || t.RouteID == "" {
			continue
		}
		m.addTrip(ScopedID(region.Code, t.RouteID), t.TripID)
	}
	return nil
}

func (l *Loader) streamStopTimes(region Region, m *materializer) error {
	streamer, err := gtfs.OpenCSVStream[gtfs.StopTime](filepath.Join(region.Dir, gtfs.StopTimesFile))
	if err != nil {
		return err
	}
	defer streamer.Close()

	if !streamer.Has("stop_sequence") {
		l.logger.Warn("stop_times has no stop_sequence column, keeping file order", "region", region.Code)
	}

	count := 0
	for {
		st, err := streamer.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read stop_time row %d: %w", count, err)
		}
		count++
		if st.TripID == "" || st.StopID == "" {
			continue
		}
		m.addStopTime(st.TripID, ScopedID(region.Code, st.StopID), st.StopSequence)

		if count%500000 == 0 {
			l.logger.Info("reading stop_times", "region", region.Code, "rows", count)
		}
	}
	return nil
}
