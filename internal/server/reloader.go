package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"busnet/internal/catalog"
)

// Reloader holds the catalog being served and replaces it wholesale when
// its source changes.
type Reloader struct {
	source Source
	opts   catalog.Options
	logger *slog.Logger

	current atomic.Pointer[catalog.Catalog]
	ready   chan struct{} // closed once a catalog is available
	once    sync.Once

	mu      sync.Mutex
	version string
}

// NewReloader creates a Reloader. No catalog is available until the first
// successful Reload.
func NewReloader(source Source, opts catalog.Options, logger *slog.Logger) *Reloader {
	return &Reloader{
		source: source,
		opts:   opts,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Current returns the catalog being served, or nil before the first load.
func (r *Reloader) Current() *catalog.Catalog {
	return r.current.Load()
}

// Ready is closed once a catalog has been loaded.
func (r *Reloader) Ready() <-chan struct{} {
	return r.ready
}

// Set installs c directly, bypassing the source.
func (r *Reloader) Set(c *catalog.Catalog) {
	r.current.Store(c)
	r.once.Do(func() { close(r.ready) })
}

// Reload loads the source if its version changed since the last load and
// swaps in a freshly built catalog. It reports whether a swap happened.
func (r *Reloader) Reload(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	version, err := r.source.Version(ctx)
	if err != nil {
		return false, err
	}
	if version == r.version && r.Current() != nil {
		return false, nil
	}

	start := time.Now()
	net, err := r.source.Load(ctx)
	if err != nil {
		return false, err
	}
	c := catalog.New(net, r.opts)
	r.Set(c)
	r.version = version

	r.logger.Info("network loaded",
		"stops", len(net.Stops),
		"routes", len(net.Routes),
		"cities", len(c.Cities()),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return true, nil
}

// Run polls the source every interval until ctx is cancelled.
func (r *Reloader) Run(ctx context.Context, interval time.Duration) {
	r.logger.Info("network reloader started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := r.Reload(ctx); err != nil {
				r.logger.Warn("network reload failed", "error", err)
			}
		case <-ctx.Done():
			r.logger.Info("network reloader stopped")
			return
		}
	}
}
