package ingest

import "strings"

// Country maps a stop's declared time-zone to a country name.
// hasZone is false when the stop declares no time-zone; tag is the region
// disambiguation tag the region was loaded with ("" for none).
//
// Rules, first match wins:
//  1. exact match in the time-zone table
//  2. any zone mentioning "Europe" falls back to the Europe default
//  3. no zone and a recognised tag uses the tag's country
//  4. the zone segment after the first "/"
//  5. UnknownCountry
func (l *Lookups) Country(zone string, hasZone bool, tag string) string {
	if hasZone {
		if c, ok := l.timezones[zone]; ok {
			return c
		}
		if strings.Contains(zone, "Europe") && l.europeFallback != "" {
			return l.europeFallback
		}
	} else if c, ok := l.tagCountries[tag]; ok {
		return c
	}

	if hasZone {
		if _, rest, found := strings.Cut(zone, "/"); found {
			segment, _, _ := strings.Cut(rest, "/")
			if segment != "" {
				return segment
			}
		}
	}
	return UnknownCountry
}
