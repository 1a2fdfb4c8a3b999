package ingest

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"busnet/internal/network"
)

// stopAtSequence is one stop-time row of a trip.
type stopAtSequence struct {
	stopID   string // scoped
	sequence int
}

// materializer turns trips and stop-times into route stop sequences.
// Each route is represented by the first trip seen for it; other trips are ignored.
type materializer struct {
	routeTrip *orderedMap[string, string] // scoped route ID -> raw trip ID
	tripStops map[string][]stopAtSequence // raw trip ID -> stops in input order
}

func newMaterializer() *materializer {
	return &materializer{
		routeTrip: newOrderedMap[string, string](),
		tripStops: make(map[string][]stopAtSequence),
	}
}

// addTrip records tripID as the representative of routeID unless the route already has one.
func (m *materializer) addTrip(routeID, tripID string) {
	m.routeTrip.SetIfAbsent(routeID, tripID)
}

// addStopTime appends a stop to a trip, keeping input order.
func (m *materializer) addStopTime(tripID, stopID, sequence string) {
	m.tripStops[tripID] = append(m.tripStops[tripID], stopAtSequence{
		stopID:   stopID,
		sequence: parseSequence(sequence),
	})
}

// apply fills the stops of every route that has a representative trip and
// returns the routes, in route table order, that ended up with at least one stop.
func (m *materializer) apply(routes *orderedMap[string, network.Route]) []network.Route {
	for _, routeID := range m.routeTrip.Keys() {
		route, ok := routes.Get(routeID)
		if !ok {
			continue
		}
		tripID, _ := m.routeTrip.Get(routeID)
		stops := m.tripStops[tripID]
		if len(stops) == 0 {
			continue
		}

		// Stable: equal sequence numbers keep their input order.
		sorted := slices.Clone(stops)
		slices.SortStableFunc(sorted, func(a, b stopAtSequence) int {
			return cmp.Compare(a.sequence, b.sequence)
		})
		ids := make([]string, len(sorted))
		for i, s := range sorted {
			ids[i] = s.stopID
		}
		route.Stops = ids
		routes.Set(routeID, route)
	}

	out := make([]network.Route, 0, routes.Len())
	for _, r := range routes.Values() {
		if len(r.Stops) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// parseSequence reads a stop_sequence cell. Unparsable values sort last.
func parseSequence(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return math.MaxInt
	}
	return n
}
