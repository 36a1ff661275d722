// Package fetch downloads raw population counts from a configured
// source, either a CSV endpoint or a statistics-portal HTML page.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/epistat/roadinj/pkg/config"
	"github.com/epistat/roadinj/pkg/httputil"
	"github.com/epistat/roadinj/pkg/logger"
)

// Fetcher downloads population data and writes it as pops.csv
// ⭐ SSOT: population source access goes through this fetcher
type Fetcher struct {
	config     *config.Config
	logger     *logger.Logger
	httpClient *httputil.Client
}

// New creates a new Fetcher
func New(cfg *config.Config, log *logger.Logger, client *httputil.Client) *Fetcher {
	return &Fetcher{
		config:     cfg,
		logger:     log,
		httpClient: client,
	}
}

// Fetch downloads from the configured source into destPath.
// Format "csv" stores the response body verbatim; "html" scrapes the
// page's population table and writes it in pops.csv layout.
func (f *Fetcher) Fetch(ctx context.Context, destPath string) error {
	if f.config.Fetch.URL == "" {
		return fmt.Errorf("FETCH_URL is not configured")
	}

	f.logger.WithFields(map[string]interface{}{
		"url":    f.config.Fetch.URL,
		"format": f.config.Fetch.Format,
		"dest":   destPath,
	}).Info("Fetching population data")

	body, err := f.get(ctx, f.config.Fetch.URL)
	if err != nil {
		return err
	}

	switch f.config.Fetch.Format {
	case "csv":
		return writeFile(destPath, body)
	case "html":
		records, err := ParsePopulationHTML(string(body))
		if err != nil {
			return fmt.Errorf("parse population table: %w", err)
		}
		f.logger.WithField("rows", len(records)).Info("Parsed population table")
		return writeFile(destPath, marshalCSV(records))
	default:
		return fmt.Errorf("unknown fetch format %q", f.config.Fetch.Format)
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// writeFile stores the payload via temp file + rename
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
