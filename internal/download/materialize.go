// Copyright Redwood Labs, 2026. All rights reserved.

// Package download saves conversion result files to disk, in the order the
// API returned them.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/redwoodlabs/convertapi-cli/internal/api"
	"github.com/redwoodlabs/convertapi-cli/pkg/types"
)

// Materialize downloads each result file into outDir and returns the saved
// paths. Downloads run sequentially in response order; the API's ordering
// is the source of truth and is never re-sorted. When a target path exists
// and overwrite is false, a collision-avoiding suffix is inserted before
// the extension. A failed download stops the run with a *api.DownloadError
// naming the URL and target; files already saved are kept.
func Materialize(ctx context.Context, client *api.Client, result *types.ConversionResult, outDir string, overwrite bool, w io.Writer) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	saved := make([]string, 0, len(result.Files))
	for _, rf := range result.Files {
		dest := filepath.Join(outDir, rf.FileName)
		if !overwrite {
			dest = avoidCollision(dest)
		}
		if err := fetchFile(ctx, client, rf.URL, dest); err != nil {
			return saved, &api.DownloadError{URL: rf.URL, Target: dest, Err: err}
		}
		fmt.Fprintf(w, "saved: %s\n", dest)
		saved = append(saved, dest)
	}
	return saved, nil
}

// avoidCollision returns path unchanged when it is free, otherwise a
// variant with a random 8-character suffix before the extension
// (report.pdf -> report_3f9a1c2b.pdf).
func avoidCollision(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for {
		suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
		alt := fmt.Sprintf("%s_%s%s", stem, suffix, ext)
		if _, err := os.Stat(alt); err != nil {
			return alt
		}
	}
}

// fetchFile streams url to destPath through a temporary file, renaming on
// success so a failed download never leaves a partial file at the target.
func fetchFile(ctx context.Context, client *api.Client, url, destPath string) error {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
