package ingest

import (
	"errors"
	"log/slog"

	"busnet/internal/network"
)

// ErrEmptyNetwork is returned when the merged network has no stops or no routes.
var ErrEmptyNetwork = errors.New("merged network has no stops or no routes")

// Merge unions the stops and concatenates the routes of every part, in order.
// Scoped IDs keep regions disjoint; a colliding stop ID means two regions share
// a code, so the first stop is kept and the collision is logged.
func Merge(logger *slog.Logger, parts ...*network.Network) (*network.Network, error) {
	merged := network.Empty()
	for _, part := range parts {
		for _, id := range part.StopIDs() {
			if _, dup := merged.Stops[id]; dup {
				logger.Error("stop ID collision across regions, keeping first", "stop_id", id)
				continue
			}
			merged.Stops[id] = part.Stops[id]
		}
		merged.Routes = append(merged.Routes, part.Routes...)
	}

	if len(merged.Stops) == 0 || len(merged.Routes) == 0 {
		return nil, ErrEmptyNetwork
	}
	return merged, nil
}
