package catalog

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	// trailingTag matches a region disambiguation tag such as "(NA)" at the end of a label.
	trailingTag = regexp.MustCompile(`^(.*?)\s*(\([A-Z]{2,3}\))$`)
	// parenthetical matches any other bracketed note, with its leading whitespace.
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)
)

// CleanLabel normalises a raw city label: whitespace is collapsed and
// parenthetical notes are removed, except a trailing region tag, which is kept.
// Cleaned labels are fixed points: CleanLabel(CleanLabel(x)) == CleanLabel(x).
func CleanLabel(city string) string {
	normalized := collapseSpace(city)
	base, tag := splitTag(normalized)
	base = collapseSpace(parenthetical.ReplaceAllString(base, ""))
	if tag == "" {
		return base
	}
	return strings.TrimSpace(base + " " + tag)
}

// splitTag separates a trailing region tag from the rest of a label.
func splitTag(label string) (base, tag string) {
	m := trailingTag.FindStringSubmatch(label)
	if m == nil {
		return label, ""
	}
	return m[1], m[2]
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Canonicalizer groups city labels that extend a shorter label by whole words,
// e.g. "Frankfurt Flughafen" under "Frankfurt". The grouping is a single
// nearest-shorter-prefix pass, not a transitive clustering.
type Canonicalizer struct {
	byRaw     map[string]string
	byCleaned map[string]string
}

type cityLabel struct {
	cleaned   string
	lowerBase string
	tag       string
	runes     int
	baseRunes int
}

// NewCanonicalizer builds the raw -> canonical map for the given raw labels.
// Candidates shorter than minLength runes never absorb other labels. Labels
// carrying a region tag such as "(NA)" never group, in either direction.
func NewCanonicalizer(rawLabels []string, minLength int) *Canonicalizer {
	c := &Canonicalizer{
		byRaw:     make(map[string]string, len(rawLabels)),
		byCleaned: make(map[string]string),
	}

	seen := make(map[string]bool)
	var labels []cityLabel
	for _, raw := range rawLabels {
		cleaned := CleanLabel(raw)
		if seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		base, tag := splitTag(cleaned)
		labels = append(labels, cityLabel{
			cleaned:   cleaned,
			lowerBase: strings.ToLower(base),
			tag:       tag,
			runes:     utf8.RuneCountInString(cleaned),
			baseRunes: utf8.RuneCountInString(base),
		})
	}

	// Shortest first; equal lengths in byte order so the result never
	// depends on input order.
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].runes != labels[j].runes {
			return labels[i].runes < labels[j].runes
		}
		return labels[i].cleaned < labels[j].cleaned
	})

	for _, label := range labels {
		canonical := label.cleaned
		for _, cand := range labels {
			if cand.cleaned == label.cleaned {
				continue
			}
			if cand.tag != "" || label.tag != "" {
				continue
			}
			// Skip short generic prefixes like "San".
			if cand.baseRunes < minLength {
				continue
			}
			if strings.HasPrefix(label.lowerBase, cand.lowerBase+" ") {
				canonical = cand.cleaned
				break
			}
		}
		c.byCleaned[label.cleaned] = canonical
	}

	for _, raw := range rawLabels {
		c.byRaw[raw] = c.byCleaned[CleanLabel(raw)]
	}
	return c
}

// Canonicalize returns the canonical label for a city label. Labels not seen
// at construction are cleaned and, if the cleaned form is known, grouped.
func (c *Canonicalizer) Canonicalize(city string) string {
	if canonical, ok := c.byRaw[city]; ok {
		return canonical
	}
	cleaned := CleanLabel(city)
	if canonical, ok := c.byCleaned[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// Canonicals returns the distinct canonical labels in ascending order.
func (c *Canonicalizer) Canonicals() []string {
	set := make(map[string]bool)
	for _, canonical := range c.byCleaned {
		set[canonical] = true
	}
	out := make([]string, 0, len(set))
	for city := range set {
		out = append(out, city)
	}
	sort.Strings(out)
	return out
}
