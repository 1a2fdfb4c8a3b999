// Package catalog answers city, country, station and route queries over a merged network.
//
// A Catalog is built once per network and never modified; every derived index
// (canonical cities, hover buckets, the search cache) lives and dies with it.
package catalog

import (
	"strings"
	"time"

	"github.com/bluele/gcache"

	"busnet/internal/network"
)

// DefaultMinCanonicalLength is the shortest label, in characters, another label may group under.
const DefaultMinCanonicalLength = 5

// Options tunes the heuristics of a Catalog.
type Options struct {
	MinCanonicalLength int               // shortest label another label may group under
	SearchAliases      map[string]string // lowercase query -> country name
	SearchCacheSize    int               // memoized search queries; 0 disables the cache
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MinCanonicalLength: DefaultMinCanonicalLength,
		SearchAliases: map[string]string{
			"us":  "United States",
			"usa": "United States",
		},
		SearchCacheSize: 256,
	}
}

// Catalog is an immutable, query-ready view of one network.
type Catalog struct {
	net      *network.Network
	stopIDs  []string          // ascending, fixes iteration order
	stopCity map[string]string // stop ID -> canonical city
	canon    *Canonicalizer
	buckets  map[string]*CityBucket
	aliases  map[string]string
	cache    gcache.Cache
	loadedAt time.Time
}

// New builds every derived index for net. The network must not be modified afterwards.
func New(net *network.Network, opts Options) *Catalog {
	c := &Catalog{
		net:      net,
		stopIDs:  net.StopIDs(),
		stopCity: make(map[string]string, len(net.Stops)),
		aliases:  make(map[string]string, len(opts.SearchAliases)),
		loadedAt: time.Now(),
	}

	rawCities := make([]string, 0, len(c.stopIDs))
	for _, id := range c.stopIDs {
		rawCities = append(rawCities, net.Stops[id].City)
	}
	c.canon = NewCanonicalizer(rawCities, opts.MinCanonicalLength)
	for _, id := range c.stopIDs {
		c.stopCity[id] = c.canon.Canonicalize(net.Stops[id].City)
	}
	c.buckets = buildBuckets(net.Stops, c.canon)

	for alias, country := range opts.SearchAliases {
		c.aliases[strings.ToLower(alias)] = strings.ToLower(country)
	}

	if opts.SearchCacheSize > 0 {
		c.cache = gcache.New(opts.SearchCacheSize).
			LRU().
			LoaderFunc(func(key interface{}) (interface{}, error) {
				return c.search(key.(string)), nil
			}).
			Build()
	}
	return c
}

// Network returns the underlying network. Callers must treat it as read-only.
func (c *Catalog) Network() *network.Network {
	return c.net
}

// LoadedAt is when the catalog was built.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}

// Stop resolves a stop ID; ok is false for unknown stops.
func (c *Catalog) Stop(id string) (network.Stop, bool) {
	return c.net.Stop(id)
}

// CanonicalCity returns the canonical form of a city label.
func (c *Catalog) CanonicalCity(city string) string {
	return c.canon.Canonicalize(city)
}

// Cities returns every canonical city in ascending order.
func (c *Catalog) Cities() []string {
	return c.canon.Canonicals()
}

// CityBucket returns what was grouped under a canonical city.
func (c *Catalog) CityBucket(city string) (*CityBucket, bool) {
	b, ok := c.buckets[city]
	return b, ok
}

// CityStops returns the stops whose canonical city is city, ordered by ID.
func (c *Catalog) CityStops(city string) []network.Stop {
	var out []network.Stop
	for _, id := range c.stopIDs {
		if c.stopCity[id] == city {
			out = append(out, c.net.Stops[id])
		}
	}
	return out
}

// RoutesByID returns every route carrying the given ID, in network order.
func (c *Catalog) RoutesByID(id string) []network.Route {
	var out []network.Route
	for _, r := range c.net.Routes {
		if r.ID == id {
			out = append(out, r)
		}
	}
	return out
}
