package server

import (
	"context"
	"fmt"
	"os"

	"busnet/internal/network"
	"busnet/internal/storage"
)

// Source produces the network to serve. Version changes whenever the
// network returned by Load would change.
type Source interface {
	Version(ctx context.Context) (string, error)
	Load(ctx context.Context) (*network.Network, error)
}

// FileSource reads the JSON artifact; its version is the file's modification time.
type FileSource struct {
	Path string
}

func (s FileSource) Version(context.Context) (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("stat artifact: %w", err)
	}
	return fmt.Sprintf("%d/%d", info.ModTime().UnixNano(), info.Size()), nil
}

func (s FileSource) Load(context.Context) (*network.Network, error) {
	return network.ReadFile(s.Path)
}

// DBSource reads the SQLite snapshot; its version is the snapshot's save time.
type DBSource struct {
	DB *storage.DB
}

func (s DBSource) Version(ctx context.Context) (string, error) {
	v, err := s.DB.GetMetadata(ctx, storage.MetaSavedAt)
	if err != nil {
		return "", fmt.Errorf("read snapshot version: %w", err)
	}
	if v == "" {
		return "", storage.ErrNoSnapshot
	}
	return v, nil
}

func (s DBSource) Load(ctx context.Context) (*network.Network, error) {
	return s.DB.LoadNetwork(ctx)
}
