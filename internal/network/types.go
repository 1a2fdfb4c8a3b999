// Package network holds the merged transit network and its JSON artifact form.
package network

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Stop is a stop with a globally scoped ID ("<REGION>:<raw id>").
type Stop struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Lat     Coord  `json:"lat"`
	Lon     Coord  `json:"lon"`
	Country string `json:"country"`
}

// HasPosition reports whether both coordinates are finite numbers.
func (s Stop) HasPosition() bool {
	return s.Lat.Valid() && s.Lon.Valid()
}

// Route is one route with the ordered stop IDs of its representative trip.
// ShortName and LongName are nil when the source table has no such column.
type Route struct {
	ID        string   `json:"id"`
	ShortName *string  `json:"shortName,omitempty"`
	LongName  *string  `json:"longName,omitempty"`
	Stops     []string `json:"stops"`
}

// Label returns the best human name for the route.
func (r Route) Label() string {
	if r.ShortName != nil && *r.ShortName != "" {
		return *r.ShortName
	}
	if r.LongName != nil && *r.LongName != "" {
		return *r.LongName
	}
	return r.ID
}

// Network is the merged artifact. It is treated as immutable once built.
type Network struct {
	Stops  map[string]Stop `json:"stops"`
	Routes []Route         `json:"routes"`
}

// Empty returns a network with no stops and no routes.
func Empty() *Network {
	return &Network{Stops: map[string]Stop{}, Routes: []Route{}}
}

// Stop resolves a stop ID. ok is false for dangling references.
func (n *Network) Stop(id string) (Stop, bool) {
	s, ok := n.Stops[id]
	return s, ok
}

// StopIDs returns every stop ID in ascending order.
func (n *Network) StopIDs() []string {
	ids := make([]string, 0, len(n.Stops))
	for id := range n.Stops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Coord is a latitude or longitude. Unparsable source values are kept as NaN
// and travel through JSON as null.
type Coord float64

// ParseCoord parses a decimal degree value, returning NaN when s is not a number.
// Surrounding whitespace is ignored.
func ParseCoord(s string) Coord {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Coord(math.NaN())
	}
	return Coord(v)
}

// Valid reports whether c is a finite number.
func (c Coord) Valid() bool {
	f := float64(c)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (c Coord) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(c))
}

func (c *Coord) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*c = Coord(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Coord(f)
	return nil
}
