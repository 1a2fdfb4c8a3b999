package catalog

import (
	geojson "github.com/paulmach/go.geojson"

	"busnet/internal/geo"
	"busnet/internal/network"
)

// RoutePath returns the stops of r that resolve, in route order.
func (c *Catalog) RoutePath(r network.Route) []network.Stop {
	path := make([]network.Stop, 0, len(r.Stops))
	for _, id := range r.Stops {
		if s, ok := c.net.Stops[id]; ok {
			path = append(path, s)
		}
	}
	return path
}

// Positions returns [lon, lat] pairs for the resolved stops of r that have
// finite coordinates.
func (c *Catalog) Positions(r network.Route) [][]float64 {
	var pos [][]float64
	for _, s := range c.RoutePath(r) {
		if s.HasPosition() {
			pos = append(pos, []float64{float64(s.Lon), float64(s.Lat)})
		}
	}
	return pos
}

// Drawable reports whether r has at least two positioned stops.
func (c *Catalog) Drawable(r network.Route) bool {
	return len(c.Positions(r)) >= 2
}

// Bounds returns the bounding box of the positioned stops of r.
// ok is false when no stop has a finite position.
func (c *Catalog) Bounds(r network.Route) (b geo.Bounds, ok bool) {
	for _, s := range c.RoutePath(r) {
		b.Extend(float64(s.Lat), float64(s.Lon))
	}
	return b, !b.Empty()
}

// RouteLength is the great-circle length of r in kilometers, summed over
// consecutive positioned stops.
func (c *Catalog) RouteLength(r network.Route) float64 {
	pos := c.Positions(r)
	var meters float64
	for i := 1; i < len(pos); i++ {
		meters += geo.Haversine(pos[i-1][1], pos[i-1][0], pos[i][1], pos[i][0])
	}
	return geo.MetersToKilometers(meters)
}

// RoutesGeoJSON renders the drawable routes as LineString features.
func (c *Catalog) RoutesGeoJSON(routes []network.Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range routes {
		pos := c.Positions(r)
		if len(pos) < 2 {
			continue
		}
		f := geojson.NewLineStringFeature(pos)
		f.SetProperty("id", r.ID)
		f.SetProperty("label", r.Label())
		f.SetProperty("stops", len(r.Stops))
		fc.AddFeature(f)
	}
	return fc
}

// StopsGeoJSON renders the positioned stops as Point features.
func (c *Catalog) StopsGeoJSON(stops []network.Stop) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range stops {
		if !s.HasPosition() {
			continue
		}
		f := geojson.NewPointFeature([]float64{float64(s.Lon), float64(s.Lat)})
		f.SetProperty("id", s.ID)
		f.SetProperty("name", s.Name)
		f.SetProperty("city", c.CanonicalCity(s.City))
		f.SetProperty("country", s.Country)
		fc.AddFeature(f)
	}
	return fc
}
