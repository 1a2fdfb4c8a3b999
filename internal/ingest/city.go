package ingest

import "strings"

// citySeparators end the city part of a stop name.
var citySeparators = []string{"(", ",", " - ", ":"}

// CityLabel derives a city label from a raw stop name: the text before the
// first separator, minus a trailing sub-location word. The result is stable
// for a given name, not necessarily the real city.
func (l *Lookups) CityLabel(stopName string) string {
	city := stopName
	for _, sep := range citySeparators {
		if i := strings.Index(city, sep); i >= 0 {
			city = city[:i]
		}
	}
	city = strings.TrimSpace(city)

	words := strings.Split(city, " ")
	if len(words) > 1 {
		if _, ok := l.subLocations[words[len(words)-1]]; ok {
			return strings.TrimSpace(strings.Join(words[:len(words)-1], " "))
		}
	}
	return city
}
