// Package site loads the index artifacts of a Doxygen documentation
// site, either over HTTP or from a local output directory.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound reports that the site does not have the requested artifact.
// Optional artifacts (search shards, member index variants) are probed
// and their absence is not an error.
var ErrNotFound = errors.New("artifact not found")

// Source resolves a named artifact relative to the site root.
type Source interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

// HTTPSource fetches artifacts from a published Doxygen site. Requests
// pass through a requests-per-minute limiter when maxRPM is set; callers
// block until a slot frees rather than failing.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewHTTPSource(baseURL string, client *http.Client, maxRPM int) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	var limiter *rate.Limiter
	if maxRPM > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxRPM)), maxRPM)
	}
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		limiter: limiter,
	}
}

func (s *HTTPSource) Get(ctx context.Context, name string) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	url := s.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s failed with status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return body, nil
}

// DirSource reads artifacts from a local Doxygen html output directory.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Get(_ context.Context, name string) ([]byte, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("artifact name %q escapes the site directory", name)
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return body, nil
}
