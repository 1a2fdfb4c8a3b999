package catalog

import (
	"strings"
	"testing"
)

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Berlin", "Berlin"},
		{"  Berlin   Mitte ", "Berlin Mitte"},
		{"Amsterdam (NA)", "Amsterdam (NA)"},
		{"Amsterdam(NA)", "Amsterdam (NA)"},
		{"Paris (Beauvais)", "Paris"},
		{"Paris (Beauvais) (UK)", "Paris (UK)"},
		{"Rome (it)", "Rome"},
		{"(NA)", "(NA)"},
		{"Open (paren", "Open (paren"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := CleanLabel(tt.in)
			if got != tt.want {
				t.Errorf("CleanLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := CleanLabel(got); again != got {
				t.Errorf("CleanLabel not a fixed point: %q -> %q", got, again)
			}
		})
	}
}

func TestCanonicalizer_PrefixGrouping(t *testing.T) {
	c := NewCanonicalizer([]string{
		"Frankfurt Flughafen",
		"Frankfurt",
		"Frankfurt Süd",
		"Frankfurter Berg",
		"Berlin",
	}, 5)

	tests := map[string]string{
		"Frankfurt Flughafen": "Frankfurt",
		"Frankfurt Süd":       "Frankfurt",
		"Frankfurt":           "Frankfurt",
		"Frankfurter Berg":    "Frankfurter Berg", // not a word boundary
		"Berlin":              "Berlin",
	}
	for raw, want := range tests {
		if got := c.Canonicalize(raw); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestCanonicalizer_CaseInsensitivePrefix(t *testing.T) {
	c := NewCanonicalizer([]string{"MUNICH", "Munich Airport"}, 5)
	if got := c.Canonicalize("Munich Airport"); got != "MUNICH" {
		t.Errorf("got %q, want MUNICH", got)
	}
}

func TestCanonicalizer_MinLength(t *testing.T) {
	c := NewCanonicalizer([]string{"San", "San Francisco", "San Diego"}, 5)
	for _, raw := range []string{"San Francisco", "San Diego"} {
		if got := c.Canonicalize(raw); got != raw {
			t.Errorf("Canonicalize(%q) = %q, want it to stay separate", raw, got)
		}
	}

	lenient := NewCanonicalizer([]string{"San", "San Francisco"}, 3)
	if got := lenient.Canonicalize("San Francisco"); got != "San" {
		t.Errorf("threshold 3: got %q, want San", got)
	}
}

func TestCanonicalizer_ShortestCandidateWins(t *testing.T) {
	c := NewCanonicalizer([]string{"New York", "New York City", "New York City Penn"}, 5)
	// Single pass: the longest label goes straight to the shortest prefix.
	if got := c.Canonicalize("New York City Penn"); got != "New York" {
		t.Errorf("got %q, want New York", got)
	}
	if got := c.Canonicalize("New York City"); got != "New York" {
		t.Errorf("got %q, want New York", got)
	}
}

func TestCanonicalizer_TaggedIsolation(t *testing.T) {
	c := NewCanonicalizer([]string{
		"Amsterdam",
		"Amsterdam (NA)",
		"Amsterdam Sloterdijk",
		"Amsterdam Airport (NA)",
	}, 5)

	tests := map[string]string{
		"Amsterdam":              "Amsterdam",
		"Amsterdam (NA)":         "Amsterdam (NA)",
		"Amsterdam Sloterdijk":   "Amsterdam",
		"Amsterdam Airport (NA)": "Amsterdam Airport (NA)",
	}
	for raw, want := range tests {
		if got := c.Canonicalize(raw); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestCanonicalizer_TaggedNeverGroup(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		raw    string
		want   string
	}{
		{"same tag", []string{"New York (NA)", "New York Midtown (NA)"}, "New York Midtown (NA)", "New York Midtown (NA)"},
		{"tagged prefix", []string{"Toronto (NA)", "Toronto Union"}, "Toronto Union", "Toronto Union"},
		{"untagged prefix", []string{"Toronto", "Toronto Union (NA)"}, "Toronto Union (NA)", "Toronto Union (NA)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanonicalizer(tt.labels, 5)
			if got := c.Canonicalize(tt.raw); got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			if got := len(c.Canonicals()); got != len(tt.labels) {
				t.Errorf("canonicals = %d, want %d", got, len(tt.labels))
			}
		})
	}
}

func TestCanonicalizer_Idempotent(t *testing.T) {
	raw := []string{
		"Frankfurt", "Frankfurt Flughafen", "Paris (Beauvais)", "Paris",
		"Amsterdam (NA)", "Amsterdam Airport (NA)", "San", "San Jose",
		" Lyon  Part Dieu ", "Lyon",
	}
	c := NewCanonicalizer(raw, 5)
	for _, r := range append(raw, "Unseen City", "Paris (Orly)") {
		once := c.Canonicalize(r)
		if twice := c.Canonicalize(once); twice != once {
			t.Errorf("Canonicalize not idempotent for %q: %q -> %q", r, once, twice)
		}
	}
}

func TestCanonicalizer_OrderIndependent(t *testing.T) {
	a := NewCanonicalizer([]string{"Lyon", "Lyon Perrache", "Lyons", "Lyons Gate"}, 4)
	b := NewCanonicalizer([]string{"Lyons Gate", "Lyons", "Lyon Perrache", "Lyon"}, 4)
	if strings.Join(a.Canonicals(), "|") != strings.Join(b.Canonicals(), "|") {
		t.Errorf("canonicals differ: %v vs %v", a.Canonicals(), b.Canonicals())
	}
	for _, raw := range []string{"Lyon Perrache", "Lyons Gate"} {
		if a.Canonicalize(raw) != b.Canonicalize(raw) {
			t.Errorf("%q: %q vs %q", raw, a.Canonicalize(raw), b.Canonicalize(raw))
		}
	}
}

func TestCityBucket_Tooltip(t *testing.T) {
	b := &CityBucket{
		City:   "Frankfurt",
		Labels: []string{"Frankfurt", "Frankfurt Flughafen"},
		Stops:  []string{"Frankfurt Hbf", "Frankfurt Airport"},
	}
	want := "Grouped city: Frankfurt\n\n" +
		"City labels (2):\n- Frankfurt\n- Frankfurt Flughafen\n\n" +
		"Stops (2):\n- Frankfurt Hbf\n- Frankfurt Airport"
	if got := b.Tooltip(); got != want {
		t.Errorf("Tooltip() =\n%s\nwant\n%s", got, want)
	}
}
