package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"busnet/internal/config"
	"busnet/internal/gtfs"
	"busnet/internal/ingest"
	"busnet/internal/network"
	"busnet/internal/server"
	"busnet/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// A missing .env is fine; real environment variables still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not read .env", "error", err)
	}

	cfg := config.Load()

	// CLI flags
	flag.BoolVar(&cfg.Build, "build", false, "Build the network artifact from the region feeds, then exit")
	flag.BoolVar(&cfg.Fetch, "fetch", false, "Download region feeds that declare a url, then exit")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.RegionsFile, "regions", cfg.RegionsFile, "Region file (YAML)")
	flag.StringVar(&cfg.PublicDir, "public", cfg.PublicDir, "Directory the artifact is written to and served from")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Optional SQLite snapshot path")
	flag.Parse()

	rf, err := config.LoadRegionFile(cfg.RegionsFile)
	if err != nil {
		logger.Error("failed to load region file", "path", cfg.RegionsFile, "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case cfg.Fetch:
		if err := fetch(ctx, rf, logger); err != nil {
			logger.Error("feed download failed", "error", err)
			os.Exit(1)
		}
	case cfg.Build:
		if err := build(ctx, cfg, rf, logger); err != nil {
			logger.Error("network build failed", "error", err)
			os.Exit(1)
		}
	default:
		if err := serve(ctx, cfg, rf, logger); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}

// fetch downloads every region feed that declares a url.
func fetch(ctx context.Context, rf *config.RegionFile, logger *slog.Logger) error {
	f := gtfs.NewFetcher(logger)
	var errs []error
	for _, r := range rf.Regions {
		if r.URL == "" {
			logger.Info("region has no feed url, skipping download", "region", r.Code, "dir", r.Dir)
			continue
		}
		changed, err := f.Fetch(ctx, r.URL, r.Dir)
		if err != nil {
			errs = append(errs, err)
			logger.Error("region download failed", "region", r.Code, "error", err)
			continue
		}
		logger.Info("region feed ready", "region", r.Code, "updated", changed)
	}
	return errors.Join(errs...)
}

// build runs the pipeline and writes the artifact. On an empty network
// nothing is written.
func build(ctx context.Context, cfg *config.Config, rf *config.RegionFile, logger *slog.Logger) error {
	p := ingest.NewPipeline(rf.IngestLookups(), logger)
	net, err := p.Build(rf.IngestRegions())
	if err != nil {
		return err
	}

	path := cfg.ArtifactPath()
	if err := network.WriteFile(path, net); err != nil {
		return err
	}

	if cfg.DBPath != "" {
		db, err := storage.Open(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveNetwork(ctx, net); err != nil {
			return err
		}
		if err := db.SetMetadata(ctx, storage.MetaSources, sources(rf.IngestRegions(), net)); err != nil {
			return err
		}
	}

	abs, _ := filepath.Abs(path)
	logger.Info("network built",
		"routes", len(net.Routes),
		"stops", len(net.Stops),
		"path", abs,
	)
	return nil
}

// sources renders the regions that contributed stops to net as code=dir
// pairs, in configuration order. Skipped regions are left out.
func sources(regions []ingest.Region, net *network.Network) string {
	loaded := make(map[string]bool)
	for id := range net.Stops {
		code, _, _ := strings.Cut(id, ":")
		loaded[code] = true
	}
	var pairs []string
	for _, r := range regions {
		if loaded[r.Code] {
			pairs = append(pairs, r.Code+"="+r.Dir)
		}
	}
	return strings.Join(pairs, ",")
}

func serve(ctx context.Context, cfg *config.Config, rf *config.RegionFile, logger *slog.Logger) error {
	var source server.Source = server.FileSource{Path: cfg.ArtifactPath()}
	if cfg.Source == config.SourceSQLite {
		if cfg.DBPath == "" {
			return errors.New("BUSNET_SOURCE=sqlite requires BUSNET_DB_PATH")
		}
		db, err := storage.Open(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		source = server.DBSource{DB: db}
	}

	reloader := server.NewReloader(source, rf.CatalogOptions(cfg.SearchCache), logger)
	if _, err := reloader.Reload(ctx); err != nil {
		// Keep serving static files; the reloader picks the network up once built.
		logger.Warn("network not available yet", "error", err)
	}
	if cfg.ReloadInterval > 0 {
		go reloader.Run(ctx, cfg.ReloadInterval)
	}

	return server.New(cfg, reloader, logger).ListenAndServe(ctx)
}
