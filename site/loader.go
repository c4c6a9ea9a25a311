package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/doxnav/doxnav-mcp/doxygen"
	"github.com/doxnav/doxnav-mcp/service/vo"
	"go.uber.org/zap"
)

const navTreeArtifact = "navtreedata.js"

// searchShardName returns the nth all_* search shard name. Doxygen
// numbers shards sequentially in hex over the populated first-character
// classes, so a site with a full symbol alphabet reaches all_10.js and
// beyond.
func searchShardName(n int) string {
	return fmt.Sprintf("search/all_%x.js", n)
}

// memberIndexPages are the namespace member index variants; each is
// optional.
var memberIndexPages = []string{
	"namespacemembers.html",
	"namespacemembers_func.html",
	"namespacemembers_vars.html",
	"namespacemembers_type.html",
	"namespacemembers_enum.html",
}

// Loader assembles a vo.Bundle from a Source, caching artifact bodies
// between loads.
type Loader struct {
	source  Source
	cache   *Cache
	logger  *zap.Logger
	baseURL string
}

func NewLoader(source Source, logger *zap.Logger, baseURL string) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		source:  source,
		cache:   NewCache(),
		logger:  logger,
		baseURL: baseURL,
	}
}

// Invalidate drops the fetch cache so the next Load refetches everything.
func (l *Loader) Invalidate() {
	l.cache.Invalidate()
}

// Load fetches and parses the navigation tree, every present search
// shard and every present member index page. The navigation tree is
// required, everything else is optional.
func (l *Loader) Load(ctx context.Context) (*vo.Bundle, error) {
	bundle := &vo.Bundle{BaseURL: l.baseURL}

	navSrc, err := l.get(ctx, navTreeArtifact)
	if err != nil {
		return nil, fmt.Errorf("failed to load navigation tree: %w", err)
	}
	tree, pages, skipped, err := doxygen.ParseNavTree(navSrc)
	if err != nil {
		return nil, err
	}
	bundle.Tree = tree
	bundle.Pages = pages
	bundle.Skipped += skipped

	for i := 0; ; i++ {
		name := searchShardName(i)
		src, err := l.get(ctx, name)
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load search shard: %w", err)
		}
		entries, skipped, err := doxygen.ParseSearchIndex(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		bundle.Search = append(bundle.Search, entries...)
		bundle.Skipped += skipped
	}

	for _, name := range memberIndexPages {
		src, err := l.get(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load member index: %w", err)
		}
		members, err := doxygen.ParseMembers(bytes.NewReader(src), "")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		bundle.Members = append(bundle.Members, members...)
	}

	l.logger.Info("loaded documentation bundle",
		zap.Int("navRoots", len(bundle.Tree)),
		zap.Int("searchEntries", len(bundle.Search)),
		zap.Int("members", len(bundle.Members)),
		zap.Int("skippedRows", bundle.Skipped),
	)
	return bundle, nil
}

func (l *Loader) get(ctx context.Context, name string) ([]byte, error) {
	if body, ok := l.cache.Read(name); ok {
		return body, nil
	}
	body, err := l.source.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	l.cache.Add(name, body)
	return body, nil
}
