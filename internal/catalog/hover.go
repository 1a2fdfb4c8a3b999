package catalog

import (
	"fmt"
	"sort"
	"strings"

	"busnet/internal/network"
)

// CityBucket lists what was grouped under one canonical city.
type CityBucket struct {
	City   string   `json:"city"`
	Labels []string `json:"labels"` // raw city labels, sorted
	Stops  []string `json:"stops"`  // stop names, sorted
}

// Tooltip renders the bucket as the multi-line hover text shown for a city.
func (b *CityBucket) Tooltip() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grouped city: %s\n\n", b.City)
	fmt.Fprintf(&sb, "City labels (%d):\n", len(b.Labels))
	for _, l := range b.Labels {
		fmt.Fprintf(&sb, "- %s\n", l)
	}
	fmt.Fprintf(&sb, "\nStops (%d):", len(b.Stops))
	for _, s := range b.Stops {
		fmt.Fprintf(&sb, "\n- %s", s)
	}
	return sb.String()
}

func buildBuckets(stops map[string]network.Stop, canon *Canonicalizer) map[string]*CityBucket {
	labels := make(map[string]map[string]bool)
	names := make(map[string]map[string]bool)
	for _, s := range stops {
		city := canon.Canonicalize(s.City)
		if labels[city] == nil {
			labels[city] = make(map[string]bool)
			names[city] = make(map[string]bool)
		}
		labels[city][s.City] = true
		names[city][s.Name] = true
	}

	buckets := make(map[string]*CityBucket, len(labels))
	for city := range labels {
		buckets[city] = &CityBucket{
			City:   city,
			Labels: sortedKeys(labels[city]),
			Stops:  sortedKeys(names[city]),
		}
	}
	return buckets
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
