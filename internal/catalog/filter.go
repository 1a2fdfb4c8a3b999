package catalog

import (
	"slices"
	"strings"

	"busnet/internal/network"
)

// Filter selects routes by station, city or country. Only the first
// non-empty field counts, in that order.
type Filter struct {
	StationID string
	City      string // canonical city
	Country   string
}

// Active reports whether any field is set.
func (f Filter) Active() bool {
	return f.StationID != "" || f.City != "" || f.Country != ""
}

// Routes returns the deduplicated routes matching f, in network order.
// An inactive filter matches every route.
func (c *Catalog) Routes(f Filter) []network.Route {
	if !f.Active() {
		return Dedup(c.net.Routes)
	}

	var match func(network.Route) bool
	switch {
	case f.StationID != "":
		match = func(r network.Route) bool {
			return slices.Contains(r.Stops, f.StationID)
		}
	case f.City != "":
		match = func(r network.Route) bool {
			return c.anyStop(r, func(id string, _ network.Stop) bool {
				return c.stopCity[id] == f.City
			})
		}
	default:
		match = func(r network.Route) bool {
			return c.anyStop(r, func(_ string, s network.Stop) bool {
				return s.Country == f.Country
			})
		}
	}

	var out []network.Route
	for _, r := range c.net.Routes {
		if match(r) {
			out = append(out, r)
		}
	}
	return Dedup(out)
}

// anyStop reports whether pred holds for a resolved stop of r. Unknown stop IDs are skipped.
func (c *Catalog) anyStop(r network.Route, pred func(string, network.Stop) bool) bool {
	for _, id := range r.Stops {
		s, ok := c.net.Stops[id]
		if !ok {
			continue
		}
		if pred(id, s) {
			return true
		}
	}
	return false
}

// Dedup drops routes whose ID and full stop sequence repeat an earlier route,
// keeping first-seen order.
func Dedup(routes []network.Route) []network.Route {
	seen := make(map[string]bool, len(routes))
	out := make([]network.Route, 0, len(routes))
	for _, r := range routes {
		sig := signature(r)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, r)
	}
	return out
}

func signature(r network.Route) string {
	return r.ID + "\x00" + strings.Join(r.Stops, "\x00")
}
