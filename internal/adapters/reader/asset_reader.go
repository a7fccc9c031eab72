// Package reader fetches the raw bytes of project assets
package reader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kamal-hamza/vocx/internal/core/domain"
	"github.com/kamal-hamza/vocx/internal/core/ports"
)

// AssetReader reads assets from local paths, file: URLs and http(s) URLs.
// Relative paths resolve against BaseDir.
type AssetReader struct {
	BaseDir string
	client  *http.Client
}

func NewAssetReader(baseDir string, timeout time.Duration) *AssetReader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AssetReader{
		BaseDir: baseDir,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ ports.AssetBinaryReader = (*AssetReader)(nil)

// GetAssetArray returns the full content of the asset
func (r *AssetReader) GetAssetArray(ctx context.Context, asset domain.Asset) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	location := asset.Path
	if location == "" {
		return nil, fmt.Errorf("asset %s has no path", asset.ID)
	}

	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return r.fetch(ctx, location)
	}

	data, err := os.ReadFile(r.localPath(location))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", asset.Name, err)
	}
	return data, nil
}

// localPath strips file: prefixes ("file:/x", "file:///x", "file:C:/x")
func (r *AssetReader) localPath(location string) string {
	p := location
	if strings.HasPrefix(strings.ToLower(p), "file:") {
		if u, err := url.Parse(p); err == nil && u.Path != "" {
			p = u.Path
			// file:///C:/x parses to /C:/x
			if len(p) > 2 && p[0] == '/' && p[2] == ':' {
				p = p[1:]
			}
		} else {
			p = p[len("file:"):]
		}
	}
	p = filepath.FromSlash(p)
	if !filepath.IsAbs(p) && r.BaseDir != "" && !hasDrive(p) {
		p = filepath.Join(r.BaseDir, p)
	}
	return p
}

func hasDrive(p string) bool {
	return len(p) > 1 && p[1] == ':'
}

func (r *AssetReader) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", location, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", location, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", location, err)
	}
	return data, nil
}
