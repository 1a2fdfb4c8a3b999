// Package handler serves the network query API and the city pages.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"busnet/internal/catalog"
)

// Catalogs yields the catalog to answer a request from. It returns nil
// while no network is loaded.
type Catalogs interface {
	Current() *catalog.Catalog
}

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	catalogs Catalogs
	logger   *slog.Logger
}

// New creates a Handler.
func New(catalogs Catalogs, logger *slog.Logger) *Handler {
	return &Handler{catalogs: catalogs, logger: logger}
}

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// catalog returns the current catalog, answering 503 itself when there is none.
// Each request works on one catalog even if a reload swaps it meanwhile.
func (h *Handler) catalog(w http.ResponseWriter) *catalog.Catalog {
	c := h.catalogs.Current()
	if c == nil {
		writeError(w, http.StatusServiceUnavailable, "network not loaded yet")
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// pathParam returns a decoded URL parameter. City names may arrive with
// escaped slashes, which the router leaves encoded.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
