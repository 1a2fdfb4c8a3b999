package ingest

import "maps"

// UnknownCountry is assigned when no rule resolves a stop's country.
const UnknownCountry = "Unknown"

// Lookups holds the static tables behind country and city derivation.
// Build one with NewLookups or DefaultLookups at start-up; it is read-only afterwards.
type Lookups struct {
	timezones      map[string]string
	europeFallback string
	tagCountries   map[string]string
	subLocations   map[string]struct{}
}

// NewLookups copies the given tables into a Lookups.
func NewLookups(timezones map[string]string, europeFallback string, tagCountries map[string]string, subLocations []string) *Lookups {
	l := &Lookups{
		timezones:      maps.Clone(timezones),
		europeFallback: europeFallback,
		tagCountries:   maps.Clone(tagCountries),
		subLocations:   make(map[string]struct{}, len(subLocations)),
	}
	if l.timezones == nil {
		l.timezones = map[string]string{}
	}
	if l.tagCountries == nil {
		l.tagCountries = map[string]string{}
	}
	for _, s := range subLocations {
		l.subLocations[s] = struct{}{}
	}
	return l
}

// DefaultLookups returns the built-in tables.
func DefaultLookups() *Lookups {
	return NewLookups(DefaultTimezones(), DefaultEuropeFallback, DefaultTagCountries(), DefaultSubLocations())
}

// DefaultEuropeFallback is the catch-all country for unlisted Europe/* zones.
// It is a policy choice, not a guess about where the stop actually is.
const DefaultEuropeFallback = "Germany"

// DefaultTimezones returns the built-in time-zone to country table.
func DefaultTimezones() map[string]string {
	return map[string]string{
		"Europe/Berlin":       "Germany",
		"Europe/Amsterdam":    "Netherlands",
		"Europe/Copenhagen":   "Denmark",
		"Europe/Paris":        "France",
		"Europe/Prague":       "Czech Republic",
		"Europe/Brussels":     "Belgium",
		"Europe/Warsaw":       "Poland",
		"Europe/Vienna":       "Austria",
		"Europe/Zurich":       "Switzerland",
		"Europe/Rome":         "Italy",
		"Europe/Madrid":       "Spain",
		"Europe/London":       "United Kingdom",
		"Europe/Istanbul":     "Turkey",
		"Europe/Lisbon":       "Portugal",
		"Europe/Stockholm":    "Sweden",
		"Europe/Oslo":         "Norway",
		"Europe/Helsinki":     "Finland",
		"Europe/Budapest":     "Hungary",
		"Europe/Dublin":       "Ireland",
		"Europe/Bucharest":    "Romania",
		"Europe/Sofia":        "Bulgaria",
		"Europe/Belgrade":     "Serbia",
		"Europe/Zagreb":       "Croatia",
		"Europe/Ljubljana":    "Slovenia",
		"Europe/Bratislava":   "Slovakia",
		"America/New_York":    "United States",
		"America/Chicago":     "United States",
		"America/Denver":      "United States",
		"America/Los_Angeles": "United States",
		"America/Phoenix":     "United States",
	}
}

// DefaultTagCountries maps recognised region tags to the country assumed for
// stops that declare no time-zone.
func DefaultTagCountries() map[string]string {
	return map[string]string{
		"(NA)": "United States",
		"(UK)": "United Kingdom",
	}
}

// DefaultSubLocations returns suffixes stripped from city labels: named
// sub-districts ("Amsterdam Sloterdijk" -> "Amsterdam") and single-word
// transit hub names ("Berlin Hbf" -> "Berlin"). The list is known to be incomplete.
func DefaultSubLocations() []string {
	return []string{
		"Sloterdijk", "Bijlmer", "Amstel", "Schiphol", "Victoria",
		"Bercy", "Esenler", "Alibeyköy", "Dudullu", "Ataşehir",
		"Hbf", "ZOB", "Station", "Busstation", "Airport",
		"Gare", "Stazione", "Terminal", "Stop", "Coach",
	}
}
