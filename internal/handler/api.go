package handler

import (
	"net/http"
	"time"

	geojson "github.com/paulmach/go.geojson"

	"busnet/internal/catalog"
	"busnet/internal/geo"
	"busnet/internal/network"
)

// HealthResponse reports whether a network is loaded.
type HealthResponse struct {
	Status   string    `json:"status"`
	Stops    int       `json:"stops"`
	Routes   int       `json:"routes"`
	Cities   int       `json:"cities"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	c := h.catalogs.Current()
	if c == nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
		return
	}
	net := c.Network()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Stops:    len(net.Stops),
		Routes:   len(net.Routes),
		Cities:   len(c.Cities()),
		LoadedAt: c.LoadedAt().UTC(),
	})
}

// Search handles GET /api/search?q=.
// Queries shorter than two characters yield empty results, not an error.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	c := h.catalog(w)
	if c == nil {
		return
	}
	writeJSON(w, http.StatusOK, c.Search(r.URL.Query().Get("q")))
}

// StopView is a stop with its canonical city.
type StopView struct {
	network.Stop
	CanonicalCity string `json:"canonicalCity"`
}

// RouteSummary describes a route without resolving its stops.
type RouteSummary struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	ShortName *string `json:"shortName,omitempty"`
	LongName  *string `json:"longName,omitempty"`
	StopCount int     `json:"stopCount"`
	Drawable  bool    `json:"drawable"`
}

// RoutesResponse is the body of GET /api/routes.
type RoutesResponse struct {
	Count    int            `json:"count"`
	Filtered bool           `json:"filtered"`
	Routes   []RouteSummary `json:"routes"`
}

// RouteDetail is a route with its resolved stops and geometry.
type RouteDetail struct {
	RouteSummary
	Stops  []StopView  `json:"stops"`
	Bounds *geo.Bounds `json:"bounds,omitempty"`
	// Center is the [lat, lon] midpoint of Bounds, where a map view centres.
	Center   *[2]float64 `json:"center,omitempty"`
	LengthKm float64     `json:"lengthKm"`
}

// CityResponse is the body of GET /api/cities/{city}.
type CityResponse struct {
	*catalog.CityBucket
	Tooltip string     `json:"tooltip"`
	Members []StopView `json:"members"`
}

func filterFromQuery(c *catalog.Catalog, r *http.Request) catalog.Filter {
	q := r.URL.Query()
	f := catalog.Filter{
		StationID: q.Get("station"),
		Country:   q.Get("country"),
	}
	if city := q.Get("city"); city != "" {
		f.City = c.CanonicalCity(city)
	}
	return f
}

func summarize(c *catalog.Catalog, route network.Route) RouteSummary {
	return RouteSummary{
		ID:        route.ID,
		Label:     route.Label(),
		ShortName: route.ShortName,
		LongName:  route.LongName,
		StopCount: len(route.Stops),
		Drawable:  c.Drawable(route),
	}
}

func stopView(c *catalog.Catalog, s network.Stop) StopView {
	return StopView{Stop: s, CanonicalCity: c.CanonicalCity(s.City)}
}

// Routes handles GET /api/routes?station=&city=&country=.
func (h *Handler) Routes(w http.ResponseWriter, r *http.Request) {
	c := h.catalog(w)
	if c == nil {
		return
	}
	f := filterFromQuery(c, r)
	routes := c.Routes(f)
	resp := RoutesResponse{Count: len(routes), Filtered: f.Active(), Routes: make([]RouteSummary, 0, len(routes))}
	for _, route := range routes {
		resp.Routes = append(resp.Routes, summarize(c, route))
	}
	writeJSON(w, http.StatusOK, resp)
}

// RoutesGeoJSON handles GET /api/routes.geojson with the same filter as Routes.
func (h *Handler) RoutesGeoJSON(w http.ResponseWriter, r *http.Request) {
	c := h.catalog(w)
	if c == nil {
		return
	}
	writeGeoJSON(w, c.RoutesGeoJSON(c.Routes(filterFromQuery(c, r))))
}

// RouteDetail handles GET /api/routes/{id}. Every route sharing the ID is
// returned once per distinct stop sequence.
func (h *Handler) RouteDetail(w http.ResponseWriter, r *http.Request) {
	c := h.catalog(w)
	if c == nil {
		return
	}
	id := pathParam(r, "id")
	routes := catalog.Dedup(c.RoutesByID(id))
	if len(routes) == 0 {
		writeError(w, http.StatusNotFound, "route not found: "+id)
		return
	}

	out := make([]RouteDetail, 0, len(routes))
	for _, route := range routes {
		d := RouteDetail{
			RouteSummary: summarize(c, route),
			Stops:        []StopView{},
			LengthKm:     c.RouteLength(route),
		}
		for _, s := range c.RoutePath(route) {
			d.Stops = append(d.Stops, stopView(c, s))
		}
		if b, ok := c.Bounds(route); ok {
			lat, lon := b.Center()
			d.Bounds = &b
			d.Center = &[2]float64{lat, lon}
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

// StopDetail handles GET /api/stops/{id}.
func (h *Handler) StopDetail(w http.ResponseWriter, r *http.Request) {
	c := h.catalog(w)
	if c == nil {
		return
	}
	id := pathParam(r, "id")
	s, ok := c.Stop(id)
	if !ok {
		writeError(w, http.StatusNotFound, "stop not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, stopView(c, s))
}

// City handles GET /api/cities/{city}. The city may be given in raw or
// canonical form.
func (h *Handler) City(w http.ResponseWriter, r *http.Request) {
	c := h.catalog(w)
	if c == nil {
		return
	}
	city := c.CanonicalCity(pathParam(r, "city"))
	bucket, ok := c.CityBucket(city)
	if !ok {
		writeError(w, http.StatusNotFound, "city not found: "+city)
		return
	}

	resp := CityResponse{CityBucket: bucket, Tooltip: bucket.Tooltip(), Members: []StopView{}}
	for _, s := range c.CityStops(city) {
		resp.Members = append(resp.Members, stopView(c, s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CityStopsGeoJSON handles GET /api/cities/{city}/stops.geojson.
func (h *Handler) CityStopsGeoJSON(w http.ResponseWriter, r *http.Request) {
	c := h.catalog(w)
	if c == nil {
		return
	}
	city := c.CanonicalCity(pathParam(r, "city"))
	if _, ok := c.CityBucket(city); !ok {
		writeError(w, http.StatusNotFound, "city not found: "+city)
		return
	}
	writeGeoJSON(w, c.StopsGeoJSON(c.CityStops(city)))
}

func writeGeoJSON(w http.ResponseWriter, fc *geojson.FeatureCollection) {
	body, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode geojson")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
