package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/doxnav/doxnav-mcp/doxygen"
	"github.com/doxnav/doxnav-mcp/scrape"
	"github.com/doxnav/doxnav-mcp/service/vo"
	"github.com/doxnav/doxnav-mcp/site"
	"go.uber.org/zap"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrNotLoaded    = errors.New("no documentation bundle loaded")
)

type Service interface {
	// GetPage resolves a page link against the navigation tree and
	// returns the page with breadcrumb, siblings, children and content.
	GetPage(ctx context.Context, path string) (*vo.Page, error)
	// SearchSymbols runs a case-insensitive prefix match over the search
	// index keys.
	SearchSymbols(ctx context.Context, query string, limit int) ([]vo.SearchHit, error)
	// NamespaceMembers lists the members of a namespace, name-sorted. An
	// empty namespace lists every member.
	NamespaceMembers(ctx context.Context, namespace string) ([]vo.Member, error)
	// Validate checks the well-formedness of the loaded bundle.
	Validate(ctx context.Context) (vo.Report, error)
	// Reload refetches the site artifacts and swaps the bundle.
	Reload(ctx context.Context) error
	// Bundle returns the currently loaded bundle.
	Bundle(ctx context.Context) (*vo.Bundle, error)
}

type SiteSettings struct {
	BaseURL         string // site root; empty disables page scraping
	ContentSelector string
	SearchLimit     int // default result cap per search
}

const (
	defaultContentSelector = "div.contents"
	defaultSearchLimit     = 20
	maxSearchLimit         = 100
)

type service struct {
	settings   SiteSettings
	httpClient *http.Client
	loader     *site.Loader
	logger     *zap.Logger

	mu     sync.RWMutex
	bundle *vo.Bundle
}

func NewService(settings SiteSettings, httpClient *http.Client, loader *site.Loader, logger *zap.Logger) Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if settings.ContentSelector == "" {
		settings.ContentSelector = defaultContentSelector
	}
	if settings.SearchLimit <= 0 {
		settings.SearchLimit = defaultSearchLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		settings:   settings,
		httpClient: httpClient,
		loader:     loader,
		logger:     logger,
	}
}

func (s *service) Reload(ctx context.Context) error {
	s.loader.Invalidate()
	bundle, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()
	return nil
}

func (s *service) Bundle(_ context.Context) (*vo.Bundle, error) {
	return s.current()
}

func (s *service) current() (*vo.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bundle == nil {
		return nil, ErrNotLoaded
	}
	return s.bundle, nil
}

// location pins a navigation node inside the tree.
type location struct {
	ancestors []vo.NavNode // root first, parent last
	siblings  []vo.NavNode
	index     int
	node      vo.NavNode
}

// locate finds the first node whose link (ignoring the anchor) equals
// path.
func locate(nodes []vo.NavNode, path string) *location {
	var walk func(nodes []vo.NavNode, ancestors []vo.NavNode) *location
	walk = func(nodes []vo.NavNode, ancestors []vo.NavNode) *location {
		for i, node := range nodes {
			if node.Link != "" && pageFile(node.Link) == path {
				return &location{
					ancestors: append([]vo.NavNode(nil), ancestors...),
					siblings:  nodes,
					index:     i,
					node:      node,
				}
			}
			if loc := walk(node.Children, append(ancestors, node)); loc != nil {
				return loc
			}
		}
		return nil
	}
	return walk(nodes, nil)
}

// pageFile strips the anchor from a link.
func pageFile(link string) string {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link = link[:i]
	}
	return link
}

func (s *service) GetPage(ctx context.Context, path string) (*vo.Page, error) {
	bundle, err := s.current()
	if err != nil {
		return nil, err
	}

	path = pageFile(strings.TrimPrefix(strings.TrimSpace(path), "/"))
	loc := locate(bundle.Tree, path)
	if loc == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrPageNotFound)
	}

	page := &vo.Page{}
	if s.settings.BaseURL != "" {
		summary, markdown, err := scrape.Scrape(ctx, s.httpClient, s.pageURL(loc.node.Link), s.settings.ContentSelector)
		if err != nil {
			return nil, err
		}
		summary.Path = loc.node.Link
		if summary.Title == "" {
			summary.Title = loc.node.Label
		}
		page.PageSummary = *summary
		page.Markdown = markdown
	} else {
		page.PageSummary = s.offlineSummary(loc.node)
	}

	for _, ancestor := range loc.ancestors {
		if ancestor.Link == "" {
			continue
		}
		page.Breadcrumb = append(page.Breadcrumb, s.relatedSummary(ctx, ancestor))
	}

	isPrevious := true
	for i, sibling := range loc.siblings {
		if i == loc.index {
			isPrevious = false
			continue
		}
		if sibling.Link == "" {
			continue
		}
		summary := s.relatedSummary(ctx, sibling)
		if isPrevious {
			page.PrevSiblings = append(page.PrevSiblings, summary)
		} else {
			page.NextSiblings = append(page.NextSiblings, summary)
		}
	}

	for _, child := range loc.node.Children {
		if child.Link == "" {
			continue
		}
		page.Children = append(page.Children, s.relatedSummary(ctx, child))
	}
	return page, nil
}

// relatedSummary resolves a breadcrumb, sibling or child node. A page
// that cannot be scraped (pruned, moved, temporarily unavailable) must
// not fail the whole view, so it degrades to the navigation label.
func (s *service) relatedSummary(ctx context.Context, node vo.NavNode) vo.PageSummary {
	summary, err := s.summarize(ctx, node)
	if err != nil {
		s.logger.Warn("failed to summarize related page, falling back to navigation label",
			zap.String("link", node.Link),
			zap.Error(err),
		)
		return s.offlineSummary(node)
	}
	return summary
}

// summarize resolves a node to a page summary, scraping the page when a
// base URL is configured and falling back to the navigation label.
func (s *service) summarize(ctx context.Context, node vo.NavNode) (vo.PageSummary, error) {
	if s.settings.BaseURL == "" {
		return s.offlineSummary(node), nil
	}
	summary, _, err := scrape.Scrape(ctx, s.httpClient, s.pageURL(node.Link), s.settings.ContentSelector)
	if err != nil {
		return vo.PageSummary{}, err
	}
	summary.Path = node.Link
	if summary.Title == "" {
		summary.Title = node.Label
	}
	return *summary, nil
}

func (s *service) offlineSummary(node vo.NavNode) vo.PageSummary {
	return vo.PageSummary{
		Path:           node.Link,
		ContentSummary: vo.ContentSummary{Title: node.Label},
	}
}

func (s *service) pageURL(link string) string {
	return strings.TrimSuffix(s.settings.BaseURL, "/") + "/" + strings.TrimPrefix(link, "../")
}

func (s *service) SearchSymbols(_ context.Context, query string, limit int) ([]vo.SearchHit, error) {
	bundle, err := s.current()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.New("query is empty")
	}
	if limit <= 0 {
		limit = s.settings.SearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	var hits []vo.SearchHit
	for _, entry := range bundle.Search {
		if !strings.HasPrefix(entry.Key, query) {
			continue
		}
		for _, match := range entry.Matches {
			hits = append(hits, vo.SearchHit{
				Key:   entry.Key,
				Label: match.Label,
				Link:  match.Link,
				Scope: match.Scope,
			})
			if len(hits) == limit {
				return hits, nil
			}
		}
	}
	return hits, nil
}

func (s *service) NamespaceMembers(_ context.Context, namespace string) ([]vo.Member, error) {
	bundle, err := s.current()
	if err != nil {
		return nil, err
	}
	var members []vo.Member
	for _, member := range bundle.Members {
		if namespace == "" || member.Namespace == namespace {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].Namespace < members[j].Namespace
	})
	return members, nil
}

func (s *service) Validate(_ context.Context) (vo.Report, error) {
	bundle, err := s.current()
	if err != nil {
		return vo.Report{}, err
	}
	report := doxygen.Validate(*bundle)
	s.logger.Debug("validated documentation bundle",
		zap.Int("errors", report.Errors()),
		zap.Int("warnings", report.Warnings()),
	)
	return report, nil
}
