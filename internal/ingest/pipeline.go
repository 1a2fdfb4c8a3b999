package ingest

import (
	"log/slog"

	"busnet/internal/network"
)

// Pipeline loads every region in order and merges the results.
type Pipeline struct {
	loader *Loader
	logger *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(lookups *Lookups, logger *slog.Logger) *Pipeline {
	return &Pipeline{loader: NewLoader(lookups, logger), logger: logger}
}

// Build runs the pipeline. A region that fails to load contributes nothing;
// the only error is ErrEmptyNetwork.
func (p *Pipeline) Build(regions []Region) (*network.Network, error) {
	parts := make([]*network.Network, 0, len(regions))
	for _, r := range regions {
		n, err := p.loader.Load(r)
		if err != nil {
			p.logger.Warn("skipped region: unreadable feed", "region", r.Code, "error", err)
			continue
		}
		parts = append(parts, n)
	}
	return Merge(p.logger, parts...)
}
