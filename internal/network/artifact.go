package network

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes n as compact JSON.
func Encode(w io.Writer, n *Network) error {
	return json.NewEncoder(w).Encode(n)
}

// Decode reads a network artifact. Missing top-level fields decode as empty.
func Decode(r io.Reader) (*Network, error) {
	n := Empty()
	if err := json.NewDecoder(r).Decode(n); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}
	if n.Stops == nil {
		n.Stops = map[string]Stop{}
	}
	if n.Routes == nil {
		n.Routes = []Route{}
	}
	return n, nil
}

// WriteFile writes the artifact to path, creating parent directories.
// The file is written to a temp sibling and renamed into place, so readers
// never see a partial artifact.
func WriteFile(path string, n *Network) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".network-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, n); err != nil {
		tmp.Close()
		return fmt.Errorf("encode network: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// ReadFile loads the artifact at path.
func ReadFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
