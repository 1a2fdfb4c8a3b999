// Package templates holds the templ components served as HTML pages.
package templates

import (
	"net/url"

	"github.com/a-h/templ"
)

// CityPageData is everything the city page renders.
type CityPageData struct {
	City    string
	Country string
	Tooltip string
	Labels  []string // raw labels grouped under City
	Stops   []CityStop
	Routes  []CityRoute
}

type CityStop struct {
	ID   string
	Name string
}

type CityRoute struct {
	ID        string
	Label     string
	StopCount int
}

func stopURL(id string) templ.SafeURL {
	return templ.URL("/api/stops/" + url.PathEscape(id))
}

func routeURL(id string) templ.SafeURL {
	return templ.URL("/api/routes/" + url.PathEscape(id))
}
