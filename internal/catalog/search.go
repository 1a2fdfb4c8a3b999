package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MinQueryLength is the shortest query, in characters, that produces results.
const MinQueryLength = 2

// maxResults caps each result category.
const maxResults = 5

// StationMatch is a stop found by name.
type StationMatch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchResults groups matches by category.
type SearchResults struct {
	Cities    []string       `json:"cities"`
	Countries []string       `json:"countries"`
	Stations  []StationMatch `json:"stations"`
}

func emptyResults() SearchResults {
	return SearchResults{Cities: []string{}, Countries: []string{}, Stations: []StationMatch{}}
}

// Search matches query case-insensitively against city labels, station names
// and country names. Results must not be modified by the caller.
func (c *Catalog) Search(query string) SearchResults {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return emptyResults()
	}
	if c.cache == nil {
		return c.search(query)
	}
	v, err := c.cache.Get(query)
	if err != nil {
		return c.search(query)
	}
	return v.(SearchResults)
}

func (c *Catalog) search(query string) SearchResults {
	q := strings.ToLower(query)
	alias, hasAlias := c.aliases[q]

	var cities []string
	citySet := make(map[string]bool)
	countrySet := make(map[string]bool)
	var stations []StationMatch

	for _, id := range c.stopIDs {
		stop := c.net.Stops[id]
		if strings.Contains(strings.ToLower(stop.City), q) {
			city := c.stopCity[id]
			if !citySet[city] {
				citySet[city] = true
				cities = append(cities, city)
			}
		}
		if strings.Contains(strings.ToLower(stop.Name), q) {
			stations = append(stations, StationMatch{ID: stop.ID, Name: stop.Name})
		}
		country := strings.ToLower(stop.Country)
		if strings.Contains(country, q) || (hasAlias && country == alias) {
			countrySet[stop.Country] = true
		}
	}

	// A station named exactly like a matched canonical city would show up twice.
	filtered := stations[:0]
	for _, s := range stations {
		if !citySet[s.Name] {
			filtered = append(filtered, s)
		}
	}
	stations = filtered

	countries := sortedKeys(countrySet)
	sort.SliceStable(cities, func(i, j int) bool {
		return utf8.RuneCountInString(cities[i]) < utf8.RuneCountInString(cities[j])
	})
	sort.SliceStable(stations, func(i, j int) bool {
		return utf8.RuneCountInString(stations[i].Name) < utf8.RuneCountInString(stations[j].Name)
	})

	res := emptyResults()
	res.Cities = append(res.Cities, limit(cities)...)
	res.Countries = append(res.Countries, limit(countries)...)
	res.Stations = append(res.Stations, limit(stations)...)
	return res
}

func limit[T any](s []T) []T {
	if len(s) > maxResults {
		return s[:maxResults]
	}
	return s
}
