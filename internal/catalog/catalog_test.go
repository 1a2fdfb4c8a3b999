package catalog

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"busnet/internal/network"
)

func ptr(s string) *string { return &s }

func stop(id, name, city, country string, lat, lon float64) network.Stop {
	return network.Stop{
		ID:      id,
		Name:    name,
		City:    city,
		Country: country,
		Lat:     network.Coord(lat),
		Lon:     network.Coord(lon),
	}
}

func testNetwork() *network.Network {
	return &network.Network{
		Stops: map[string]network.Stop{
			"EU:1": stop("EU:1", "Berlin Hbf", "Berlin", "Germany", 52.525, 13.369),
			"EU:2": stop("EU:2", "Berlin ZOB", "Berlin", "Germany", 52.507, 13.279),
			"EU:3": stop("EU:3", "Hamburg ZOB", "Hamburg", "Germany", 53.552, 10.011),
			"EU:4": stop("EU:4", "Frankfurt Flughafen", "Frankfurt Flughafen", "Germany", 50.051, 8.571),
			"EU:5": stop("EU:5", "Frankfurt", "Frankfurt", "Germany", 50.107, 8.663),
			"EU:6": stop("EU:6", "Amsterdam Sloterdijk", "Amsterdam", "Netherlands", 52.389, 4.838),
			"US:1": stop("US:1", "Amsterdam (NA)", "Amsterdam (NA)", "United States", 42.938, -74.190),
			"US:2": stop("US:2", "Albany (NA)", "Albany (NA)", "United States", math.NaN(), math.NaN()),
		},
		Routes: []network.Route{
			{ID: "EU:R1", ShortName: ptr("N1"), Stops: []string{"EU:1", "EU:3"}},
			{ID: "EU:R1", ShortName: ptr("N1"), Stops: []string{"EU:1", "EU:3"}},
			{ID: "EU:R1", ShortName: ptr("N1"), Stops: []string{"EU:3", "EU:1"}},
			{ID: "EU:R2", LongName: ptr("Berlin - Frankfurt"), Stops: []string{"EU:2", "EU:4", "EU:5"}},
			{ID: "EU:R3", Stops: []string{"EU:6", "EU:gone"}},
			{ID: "US:R1", Stops: []string{"US:1", "US:2"}},
		},
	}
}

func newTestCatalog() *Catalog {
	return New(testNetwork(), DefaultOptions())
}

func TestCatalog_Cities(t *testing.T) {
	c := newTestCatalog()
	want := []string{"Albany (NA)", "Amsterdam", "Amsterdam (NA)", "Berlin", "Frankfurt", "Hamburg"}
	if got := c.Cities(); !reflect.DeepEqual(got, want) {
		t.Errorf("Cities() = %v, want %v", got, want)
	}

	b, ok := c.CityBucket("Frankfurt")
	if !ok {
		t.Fatal("no Frankfurt bucket")
	}
	if want := []string{"Frankfurt", "Frankfurt Flughafen"}; !reflect.DeepEqual(b.Labels, want) {
		t.Errorf("labels = %v, want %v", b.Labels, want)
	}
	if _, ok := c.CityBucket("Frankfurt Flughafen"); ok {
		t.Error("grouped label should not have its own bucket")
	}
}

func TestCatalog_CityStops(t *testing.T) {
	c := newTestCatalog()
	var ids []string
	for _, s := range c.CityStops("Frankfurt") {
		ids = append(ids, s.ID)
	}
	if want := []string{"EU:4", "EU:5"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("CityStops(Frankfurt) = %v, want %v", ids, want)
	}
	if got := c.CityStops("Nowhere"); len(got) != 0 {
		t.Errorf("CityStops(Nowhere) = %v, want none", got)
	}
}

func TestDedup(t *testing.T) {
	routes := testNetwork().Routes
	got := Dedup(routes)
	if len(got) != len(routes)-1 {
		t.Fatalf("got %d routes, want %d", len(got), len(routes)-1)
	}
	// Same ID with a different stop order is a different signature.
	if !reflect.DeepEqual(got[1].Stops, []string{"EU:3", "EU:1"}) {
		t.Errorf("second route stops = %v, want reversed EU:R1", got[1].Stops)
	}
	if got[0].ID != "EU:R1" || got[2].ID != "EU:R2" {
		t.Errorf("first-seen order lost: %v", got)
	}

	distinctIDs := []network.Route{
		{ID: "A", Stops: []string{"1", "2"}},
		{ID: "B", Stops: []string{"1", "2"}},
	}
	if n := len(Dedup(distinctIDs)); n != 2 {
		t.Errorf("routes with different IDs collapsed to %d", n)
	}

	ambiguous := []network.Route{
		{ID: "A", Stops: []string{"1,2"}},
		{ID: "A", Stops: []string{"1", "2"}},
	}
	if n := len(Dedup(ambiguous)); n != 2 {
		t.Errorf("separator collision collapsed routes to %d", n)
	}
}

func TestCatalog_Routes(t *testing.T) {
	c := newTestCatalog()

	ids := func(routes []network.Route) []string {
		var out []string
		for _, r := range routes {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"none", Filter{}, []string{"EU:R1", "EU:R1", "EU:R2", "EU:R3", "US:R1"}},
		{"station", Filter{StationID: "EU:3"}, []string{"EU:R1", "EU:R1"}},
		{"city grouped", Filter{City: "Frankfurt"}, []string{"EU:R2"}},
		{"city with dangling stop", Filter{City: "Amsterdam"}, []string{"EU:R3"}},
		{"tagged city", Filter{City: "Amsterdam (NA)"}, []string{"US:R1"}},
		{"country", Filter{Country: "Germany"}, []string{"EU:R1", "EU:R1", "EU:R2"}},
		{"station beats city", Filter{StationID: "US:1", City: "Berlin"}, []string{"US:R1"}},
		{"city beats country", Filter{City: "Hamburg", Country: "United States"}, []string{"EU:R1", "EU:R1"}},
		{"unknown station", Filter{StationID: "EU:none"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(c.Routes(tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Routes(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestCatalog_Search_StationNamedLikeGroupedLabel(t *testing.T) {
	c := New(&network.Network{Stops: map[string]network.Stop{
		"EU:1": stop("EU:1", "Frankfurt Flughafen", "Frankfurt Flughafen", "Germany", 50.051, 8.571),
		"EU:2": stop("EU:2", "Frankfurt Hbf", "Frankfurt", "Germany", 50.107, 8.663),
	}}, DefaultOptions())

	res := c.Search("flughafen")
	if want := []string{"Frankfurt"}; !reflect.DeepEqual(res.Cities, want) {
		t.Errorf("cities = %v, want %v", res.Cities, want)
	}
	if want := []StationMatch{{ID: "EU:1", Name: "Frankfurt Flughafen"}}; !reflect.DeepEqual(res.Stations, want) {
		t.Errorf("stations = %v, want %v", res.Stations, want)
	}
}

func TestCatalog_Search(t *testing.T) {
	c := newTestCatalog()

	res := c.Search("ber")
	if want := []string{"Berlin"}; !reflect.DeepEqual(res.Cities, want) {
		t.Errorf("cities = %v, want %v", res.Cities, want)
	}
	if len(res.Countries) != 0 {
		t.Errorf("countries = %v, want none", res.Countries)
	}
	wantStations := []StationMatch{{ID: "EU:1", Name: "Berlin Hbf"}, {ID: "EU:2", Name: "Berlin ZOB"}}
	if !reflect.DeepEqual(res.Stations, wantStations) {
		t.Errorf("stations = %v, want %v", res.Stations, wantStations)
	}

	res = c.Search("FRANK")
	if want := []string{"Frankfurt"}; !reflect.DeepEqual(res.Cities, want) {
		t.Errorf("cities = %v, want %v", res.Cities, want)
	}
	// The station named "Frankfurt" duplicates the city; the airport does not.
	if want := []StationMatch{{ID: "EU:4", Name: "Frankfurt Flughafen"}}; !reflect.DeepEqual(res.Stations, want) {
		t.Errorf("stations = %v, want %v", res.Stations, want)
	}

	res = c.Search("usa")
	if want := []string{"United States"}; !reflect.DeepEqual(res.Countries, want) {
		t.Errorf("alias countries = %v, want %v", res.Countries, want)
	}

	res = c.Search("an")
	if want := []string{"Germany", "Netherlands"}; !reflect.DeepEqual(res.Countries, want) {
		t.Errorf("countries = %v, want %v", res.Countries, want)
	}
}

func TestCatalog_SearchOrderAndCap(t *testing.T) {
	net := &network.Network{Stops: map[string]network.Stop{}}
	for i, name := range []string{"Stop Long Name", "Stop AB", "Stop ABCDE", "Stop A", "Stop ABC", "Stop ABCD", "Stop ABCDEF"} {
		id := string(rune('a' + i))
		net.Stops[id] = stop(id, name, "Town", "Germany", 1, 1)
	}
	c := New(net, DefaultOptions())

	res := c.Search("stop")
	var names []string
	for _, s := range res.Stations {
		names = append(names, s.Name)
	}
	want := []string{"Stop A", "Stop AB", "Stop ABC", "Stop ABCD", "Stop ABCDE"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("stations = %v, want %v", names, want)
	}
}

func TestCatalog_SearchShortQuery(t *testing.T) {
	c := newTestCatalog()
	for _, q := range []string{"", "b", "ü"} {
		res := c.Search(q)
		if len(res.Cities)+len(res.Countries)+len(res.Stations) != 0 {
			t.Errorf("Search(%q) = %+v, want empty", q, res)
		}
		if res.Cities == nil || res.Stations == nil || res.Countries == nil {
			t.Errorf("Search(%q) returned nil slices", q)
		}
	}
}

func TestCatalog_SearchCached(t *testing.T) {
	c := newTestCatalog()
	first := c.Search("ham")
	second := c.Search("ham")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}

	opts := DefaultOptions()
	opts.SearchCacheSize = 0
	uncached := New(testNetwork(), opts)
	if got := uncached.Search("ham"); !reflect.DeepEqual(got, first) {
		t.Errorf("uncached = %+v, want %+v", got, first)
	}
}

func TestCatalog_Geometry(t *testing.T) {
	c := newTestCatalog()
	routes := c.Network().Routes

	if !c.Drawable(routes[0]) {
		t.Error("EU:R1 should be drawable")
	}
	// EU:gone is dangling, so only one stop resolves.
	if got := c.RoutePath(routes[4]); len(got) != 1 {
		t.Errorf("RoutePath(EU:R3) = %v, want one stop", got)
	}
	if c.Drawable(routes[4]) {
		t.Error("EU:R3 should not be drawable")
	}
	// US:2 has no position.
	if c.Drawable(routes[5]) {
		t.Error("US:R1 should not be drawable")
	}

	b, ok := c.Bounds(routes[3])
	if !ok {
		t.Fatal("Bounds(EU:R2) not ok")
	}
	if b.MinLat != 50.051 || b.MaxLat != 52.507 || b.MinLon != 8.571 || b.MaxLon != 13.279 {
		t.Errorf("Bounds(EU:R2) = %+v", b)
	}

	nanOnly := network.Route{ID: "x", Stops: []string{"US:2", "missing"}}
	if _, ok := c.Bounds(nanOnly); ok {
		t.Error("Bounds over NaN and dangling stops should not be ok")
	}
	if got := c.RouteLength(nanOnly); got != 0 {
		t.Errorf("RouteLength = %v, want 0", got)
	}

	km := c.RouteLength(routes[0])
	if km < 249 || km > 255 {
		t.Errorf("Berlin-Hamburg length = %.1f km, want about 252", km)
	}
}

func TestCatalog_GeoJSON(t *testing.T) {
	c := newTestCatalog()

	fc := c.RoutesGeoJSON(c.Routes(Filter{}))
	if len(fc.Features) != 3 {
		t.Fatalf("got %d route features, want 3", len(fc.Features))
	}
	if got := fc.Features[0].Properties["label"]; got != "N1" {
		t.Errorf("label = %v, want N1", got)
	}
	if _, err := json.Marshal(fc); err != nil {
		t.Errorf("marshal routes: %v", err)
	}

	stops := c.StopsGeoJSON([]network.Stop{c.net.Stops["US:1"], c.net.Stops["US:2"]})
	if len(stops.Features) != 1 {
		t.Fatalf("got %d stop features, want 1", len(stops.Features))
	}
	if got := stops.Features[0].Properties["city"]; got != "Amsterdam (NA)" {
		t.Errorf("city = %v, want Amsterdam (NA)", got)
	}
}
