package geo

// Bounds is a lat/lon bounding box. The zero value is empty.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
	n      int
}

// Extend grows the box to include the point. Non-finite points are ignored
// and reported as false.
func (b *Bounds) Extend(lat, lon float64) bool {
	if !Finite(lat, lon) {
		return false
	}
	if b.n == 0 {
		b.MinLat, b.MaxLat = lat, lat
		b.MinLon, b.MaxLon = lon, lon
	} else {
		b.MinLat = min(b.MinLat, lat)
		b.MaxLat = max(b.MaxLat, lat)
		b.MinLon = min(b.MinLon, lon)
		b.MaxLon = max(b.MaxLon, lon)
	}
	b.n++
	return true
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.n == 0
}

// Center returns the midpoint of the box.
func (b Bounds) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}
