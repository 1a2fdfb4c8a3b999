package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration from environment variables.
type Config struct {
	Port           int
	RegionsFile    string        // YAML region list and lookup tables; built-in defaults when absent
	PublicDir      string        // static asset root the artifact is written to and served from
	ArtifactName   string        // artifact file name inside PublicDir
	DBPath         string        // optional SQLite snapshot of the network
	Source         string        // "json" or "sqlite": where the server loads the network from
	ReloadInterval time.Duration // artifact change polling; 0 disables
	AllowedOrigins []string
	SearchCache    int // memoized search queries per loaded network

	Build bool // CLI flag: run the pipeline, then exit
	Fetch bool // CLI flag: download region feeds, then exit
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:           envInt("BUSNET_PORT", 8080),
		RegionsFile:    envStr("BUSNET_REGIONS_FILE", "regions.yml"),
		PublicDir:      envStr("BUSNET_PUBLIC_DIR", "public"),
		ArtifactName:   envStr("BUSNET_ARTIFACT_NAME", "flixbus_network.json"),
		DBPath:         envStr("BUSNET_DB_PATH", ""),
		Source:         envStr("BUSNET_SOURCE", SourceJSON),
		ReloadInterval: envDuration("BUSNET_RELOAD_INTERVAL", 30*time.Second),
		AllowedOrigins: envList("BUSNET_ALLOWED_ORIGINS", []string{"*"}),
		SearchCache:    envInt("BUSNET_SEARCH_CACHE", 256),
	}
}

// Network sources for the server.
const (
	SourceJSON   = "json"
	SourceSQLite = "sqlite"
)

// ArtifactPath is where the pipeline writes the network and the server reads it.
func (c *Config) ArtifactPath() string {
	return filepath.Join(c.PublicDir, c.ArtifactName)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
