package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"busnet/internal/catalog"
	"busnet/internal/ingest"
)

// ErrNoRegions is returned when a region file declares an empty region list.
var ErrNoRegions = errors.New("region file declares no regions")

// RegionConfig is one feed directory entry of the region file.
type RegionConfig struct {
	Dir  string `yaml:"dir" validate:"required"`
	Code string `yaml:"code" validate:"required,excludes=:"`
	Tag  string `yaml:"tag"`
	URL  string `yaml:"url" validate:"omitempty,url"`
}

// LookupConfig holds the heuristic tables. Empty fields keep the built-in defaults.
type LookupConfig struct {
	Timezones          map[string]string `yaml:"timezones"`
	EuropeFallback     string            `yaml:"europeFallback"`
	TagCountries       map[string]string `yaml:"tagCountries"`
	SubLocations       []string          `yaml:"subLocations"`
	MinCanonicalLength int               `yaml:"minCanonicalLength" validate:"gte=0"`
	SearchAliases      map[string]string `yaml:"searchAliases"`
}

// RegionFile is the root of the region file.
type RegionFile struct {
	Regions []RegionConfig `yaml:"regions" validate:"unique=Code,dive"`
	Lookups LookupConfig   `yaml:"lookups"`
}

// DefaultMinCanonicalLength is the shortest city label another label may be grouped under.
const DefaultMinCanonicalLength = catalog.DefaultMinCanonicalLength

// DefaultRegions mirrors the layout the pipeline has always read.
func DefaultRegions() []RegionConfig {
	return []RegionConfig{
		{Dir: "gtfs_eu", Code: "EU"},
		{Dir: "gtfs_us", Code: "US", Tag: "(NA)"},
		{Dir: "gtfs_gb", Code: "GB"},
	}
}

// DefaultSearchAliases maps search shorthands to country names.
func DefaultSearchAliases() map[string]string {
	return catalog.DefaultOptions().SearchAliases
}

// LoadRegionFile reads and validates the region file at path. A missing file
// yields the built-in defaults.
func LoadRegionFile(path string) (*RegionFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		rf := &RegionFile{Regions: DefaultRegions()}
		rf.applyDefaults()
		return rf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read region file: %w", err)
	}
	return ParseRegionFile(data)
}

// ParseRegionFile decodes and validates region file contents.
func ParseRegionFile(data []byte) (*RegionFile, error) {
	var rf RegionFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse region file: %w", err)
	}
	if rf.Regions == nil {
		rf.Regions = DefaultRegions()
	}
	if len(rf.Regions) == 0 {
		return nil, ErrNoRegions
	}

	v := validator.New()
	if err := v.Struct(rf); err != nil {
		return nil, fmt.Errorf("validate region file: %w", err)
	}
	rf.applyDefaults()
	return &rf, nil
}

func (rf *RegionFile) applyDefaults() {
	l := &rf.Lookups
	if l.Timezones == nil {
		l.Timezones = ingest.DefaultTimezones()
	}
	if l.EuropeFallback == "" {
		l.EuropeFallback = ingest.DefaultEuropeFallback
	}
	if l.TagCountries == nil {
		l.TagCountries = ingest.DefaultTagCountries()
	}
	if l.SubLocations == nil {
		l.SubLocations = ingest.DefaultSubLocations()
	}
	if l.MinCanonicalLength == 0 {
		l.MinCanonicalLength = DefaultMinCanonicalLength
	}
	if l.SearchAliases == nil {
		l.SearchAliases = DefaultSearchAliases()
	}
}

// IngestRegions converts the configured regions for the pipeline.
func (rf *RegionFile) IngestRegions() []ingest.Region {
	out := make([]ingest.Region, len(rf.Regions))
	for i, r := range rf.Regions {
		out[i] = ingest.Region{Dir: r.Dir, Code: r.Code, Tag: r.Tag}
	}
	return out
}

// IngestLookups builds the immutable lookup tables for the pipeline.
func (rf *RegionFile) IngestLookups() *ingest.Lookups {
	l := rf.Lookups
	return ingest.NewLookups(l.Timezones, l.EuropeFallback, l.TagCountries, l.SubLocations)
}

// CatalogOptions returns the query heuristics with the given search cache size.
func (rf *RegionFile) CatalogOptions(cacheSize int) catalog.Options {
	return catalog.Options{
		MinCanonicalLength: rf.Lookups.MinCanonicalLength,
		SearchAliases:      rf.Lookups.SearchAliases,
		SearchCacheSize:    cacheSize,
	}
}
