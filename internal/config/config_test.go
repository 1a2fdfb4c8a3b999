package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"BUSNET_PORT", "BUSNET_PUBLIC_DIR", "BUSNET_ARTIFACT_NAME", "BUSNET_SOURCE", "BUSNET_RELOAD_INTERVAL", "BUSNET_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if got, want := cfg.ArtifactPath(), filepath.Join("public", "flixbus_network.json"); got != want {
		t.Errorf("ArtifactPath = %q, want %q", got, want)
	}
	if cfg.Source != SourceJSON {
		t.Errorf("Source = %q, want %q", cfg.Source, SourceJSON)
	}
	if cfg.ReloadInterval != 30*time.Second {
		t.Errorf("ReloadInterval = %v, want 30s", cfg.ReloadInterval)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("BUSNET_PORT", "9090")
	t.Setenv("BUSNET_RELOAD_INTERVAL", "0")
	t.Setenv("BUSNET_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("BUSNET_DB_PATH", "/tmp/net.db")

	cfg := Load()
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.ReloadInterval != 0 {
		t.Errorf("ReloadInterval = %v, want 0", cfg.ReloadInterval)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if cfg.DBPath != "/tmp/net.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoad_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("BUSNET_PORT", "eighty")
	if got := Load().Port; got != 8080 {
		t.Errorf("Port = %d, want fallback 8080", got)
	}
}

func TestLoadRegionFile_MissingUsesDefaults(t *testing.T) {
	rf, err := LoadRegionFile(filepath.Join(t.TempDir(), "regions.yml"))
	if err != nil {
		t.Fatalf("LoadRegionFile: %v", err)
	}
	if !reflect.DeepEqual(rf.Regions, DefaultRegions()) {
		t.Errorf("Regions = %+v, want defaults", rf.Regions)
	}
	if rf.Lookups.MinCanonicalLength != DefaultMinCanonicalLength {
		t.Errorf("MinCanonicalLength = %d", rf.Lookups.MinCanonicalLength)
	}
	if rf.Lookups.Timezones["Europe/Berlin"] != "Germany" {
		t.Error("default timezone table not applied")
	}
}

func TestParseRegionFile(t *testing.T) {
	data := []byte(`
regions:
  - dir: feeds/eu
    code: EU
  - dir: feeds/us
    code: US
    tag: "(NA)"
    url: https://example.com/us.zip
lookups:
  subLocations: [Nord, Sud]
  minCanonicalLength: 4
  searchAliases:
    uk: United Kingdom
`)
	rf, err := ParseRegionFile(data)
	if err != nil {
		t.Fatalf("ParseRegionFile: %v", err)
	}
	if len(rf.Regions) != 2 || rf.Regions[1].Tag != "(NA)" || rf.Regions[1].URL == "" {
		t.Errorf("Regions = %+v", rf.Regions)
	}
	if rf.Lookups.MinCanonicalLength != 4 {
		t.Errorf("MinCanonicalLength = %d, want 4", rf.Lookups.MinCanonicalLength)
	}
	if !reflect.DeepEqual(rf.Lookups.SubLocations, []string{"Nord", "Sud"}) {
		t.Errorf("SubLocations = %v", rf.Lookups.SubLocations)
	}
	if rf.Lookups.EuropeFallback != "Germany" {
		t.Errorf("EuropeFallback = %q, want default", rf.Lookups.EuropeFallback)
	}

	regions := rf.IngestRegions()
	if regions[0].Code != "EU" || regions[0].Dir != "feeds/eu" {
		t.Errorf("IngestRegions = %+v", regions)
	}
	if got := rf.IngestLookups().CityLabel("Hamburg Nord"); got != "Hamburg" {
		t.Errorf("configured sub-locations not applied: %q", got)
	}
}

func TestParseRegionFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing code", "regions:\n  - dir: a\n"},
		{"missing dir", "regions:\n  - code: EU\n"},
		{"code with colon", "regions:\n  - {dir: a, code: 'E:U'}\n"},
		{"bad url", "regions:\n  - {dir: a, code: EU, url: 'not a url'}\n"},
		{"duplicate code", "regions:\n  - {dir: a, code: EU}\n  - {dir: b, code: EU}\n"},
		{"negative threshold", "lookups:\n  minCanonicalLength: -1\n"},
		{"bad yaml", "regions: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRegionFile([]byte(tt.data)); err == nil {
				t.Error("ParseRegionFile succeeded, want error")
			}
		})
	}
}

func TestParseRegionFile_EmptyList(t *testing.T) {
	if _, err := ParseRegionFile([]byte("regions: []\n")); !errors.Is(err, ErrNoRegions) {
		t.Errorf("err = %v, want ErrNoRegions", err)
	}
}

func TestCatalogOptions(t *testing.T) {
	rf, err := ParseRegionFile([]byte("regions:\n  - {dir: gtfs_eu, code: EU}\nlookups:\n  searchAliases: {de: Germany}\n"))
	if err != nil {
		t.Fatalf("ParseRegionFile: %v", err)
	}
	opts := rf.CatalogOptions(16)
	if opts.MinCanonicalLength != DefaultMinCanonicalLength || opts.SearchCacheSize != 16 {
		t.Errorf("opts = %+v", opts)
	}
	if want := map[string]string{"de": "Germany"}; !reflect.DeepEqual(opts.SearchAliases, want) {
		t.Errorf("aliases = %v, want %v", opts.SearchAliases, want)
	}
}
