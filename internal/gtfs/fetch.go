package gtfs

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"
)

// Fetcher downloads zipped feeds and unpacks the required tables into a region directory.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 10 * time.Minute},
		logger: logger,
	}
}

// Fetch downloads the feed at url and extracts the required tables into dir.
// When dir already holds a stops table, the request is conditional on its
// modification time and a 304 leaves dir untouched. It reports whether dir changed.
func (f *Fetcher) Fetch(ctx context.Context, url, dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("create dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	if info, err := os.Stat(filepath.Join(dir, StopsFile)); err == nil {
		req.Header.Set("If-Modified-Since", info.ModTime().UTC().Format(http.TimeFormat))
	}

	f.logger.Info("downloading feed", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		f.logger.Info("feed not modified", "dir", dir)
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(dir, "feed-*.zip")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	written, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		return false, fmt.Errorf("write file: %w", err)
	}
	f.logger.Info("feed downloaded",
		"dir", dir,
		"size_mb", fmt.Sprintf("%.1f", float64(written)/(1024*1024)),
	)

	if err := Unpack(tmpFile.Name(), dir); err != nil {
		return false, err
	}
	return true, nil
}

// Unpack extracts the required tables from the zip at zipPath into dir.
// Tables may sit in a sub-folder of the archive; other entries are ignored.
func Unpack(zipPath, dir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	found := 0
	for _, zf := range r.File {
		name := path.Base(zf.Name)
		if zf.FileInfo().IsDir() || !slices.Contains(RequiredFiles, name) {
			continue
		}
		if err := extract(zf, filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
		found++
	}
	if found == 0 {
		return fmt.Errorf("no feed tables found in %s", filepath.Base(zipPath))
	}
	return nil
}

// extract writes one archive entry to dest through a temp file so a failed
// copy never leaves a truncated table behind.
func extract(zf *zip.File, dest string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".extract-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
