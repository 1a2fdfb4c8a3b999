package handler

import (
	"net/http"

	"busnet/internal/catalog"
	"busnet/internal/templates"
)

// CityPage handles GET /cities/{city}.
func (h *Handler) CityPage(w http.ResponseWriter, r *http.Request) {
	c := h.catalogs.Current()
	if c == nil {
		http.Error(w, "Network not loaded yet", http.StatusServiceUnavailable)
		return
	}
	city := c.CanonicalCity(pathParam(r, "city"))
	bucket, ok := c.CityBucket(city)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := templates.CityPageData{City: city, Tooltip: bucket.Tooltip(), Labels: bucket.Labels}
	for _, s := range c.CityStops(city) {
		if data.Country == "" {
			data.Country = s.Country
		}
		data.Stops = append(data.Stops, templates.CityStop{ID: s.ID, Name: s.Name})
	}
	for _, route := range c.Routes(catalog.Filter{City: city}) {
		sum := summarize(c, route)
		data.Routes = append(data.Routes, templates.CityRoute{ID: sum.ID, Label: sum.Label, StopCount: sum.StopCount})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.CityPage(data).Render(r.Context(), w); err != nil {
		h.logger.Error("rendering city page", "city", city, "error", err)
	}
}
