package doxygen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/doxnav/doxnav-mcp/service/vo"
)

// linkPattern matches a relative documentation link with an optional
// anchor, e.g. "classcrewai_1_1_agent.html#a3f".
var linkPattern = regexp.MustCompile(`^[A-Za-z0-9_./-]+\.x?html(#[A-Za-z0-9_.:-]+)?$`)

// Validate checks the structural well-formedness of a loaded bundle:
// every entry has a label and a link, links are relative and resolvable,
// search keys are normalized and ordered, member rows are unique. Shape
// violations are errors, resolution and ordering findings are warnings.
func Validate(b vo.Bundle) vo.Report {
	report := vo.Report{Skipped: b.Skipped}

	// Nav links resolve against the NAVTREEINDEX alone; member links may
	// also point at pages only the tree knows about.
	indexPages := make(map[string]struct{}, len(b.Pages))
	for _, p := range b.Pages {
		indexPages[linkFile(p)] = struct{}{}
	}
	resolve := len(b.Pages) > 0

	for i, node := range b.Tree {
		validateNavNode(&report, node, fmt.Sprintf("/%d", i), indexPages, resolve)
	}
	validateSearch(&report, b.Search)
	validateMembers(&report, b.Members, pageSet(b, indexPages), resolve)
	return report
}

// pageSet collects every known page file: the NAVTREEINDEX entries plus
// the file part of every nav link.
func pageSet(b vo.Bundle, indexPages map[string]struct{}) map[string]struct{} {
	pages := make(map[string]struct{}, len(indexPages))
	for p := range indexPages {
		pages[p] = struct{}{}
	}
	var walk func(nodes []vo.NavNode)
	walk = func(nodes []vo.NavNode) {
		for _, n := range nodes {
			if n.Link != "" {
				pages[linkFile(n.Link)] = struct{}{}
			}
			walk(n.Children)
		}
	}
	walk(b.Tree)
	return pages
}

// linkFile strips the anchor and any relative prefix from a link.
func linkFile(link string) string {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link = link[:i]
	}
	return strings.TrimPrefix(link, "../")
}

func validateNavNode(report *vo.Report, node vo.NavNode, path string, pages map[string]struct{}, resolve bool) {
	at := path
	if node.Label != "" {
		at = path + ":" + node.Label
	}
	if node.Label == "" {
		report.Add(vo.SeverityError, at, "navigation entry has no label")
	}
	switch {
	case node.Link == "":
		report.Add(vo.SeverityWarning, at, "navigation entry has no link (grouping node)")
	case !wellFormedLink(node.Link):
		report.Add(vo.SeverityError, at, fmt.Sprintf("malformed navigation link %q", node.Link))
	case resolve:
		if _, ok := pages[linkFile(node.Link)]; !ok {
			report.Add(vo.SeverityWarning, at, fmt.Sprintf("navigation link %q does not resolve to a known page", node.Link))
		}
	}
	for i, child := range node.Children {
		validateNavNode(report, child, fmt.Sprintf("%s/%d", at, i), pages, resolve)
	}
}

func wellFormedLink(link string) bool {
	if strings.Contains(link, "://") || strings.HasPrefix(link, "/") {
		return false
	}
	if strings.Contains(strings.TrimPrefix(link, "../"), "..") {
		return false
	}
	return linkPattern.MatchString(strings.TrimPrefix(link, "../"))
}

func validateSearch(report *vo.Report, entries []vo.SearchEntry) {
	prev := ""
	for i, entry := range entries {
		at := "search:" + entry.Key
		if entry.Key == "" {
			report.Add(vo.SeverityError, fmt.Sprintf("search:#%d", i), "search entry has an empty key")
		} else {
			if entry.Key != strings.ToLower(entry.Key) {
				report.Add(vo.SeverityWarning, at, "search key is not lower-case")
			}
			if prev > entry.Key {
				report.Add(vo.SeverityWarning, at, fmt.Sprintf("search key sorts before its predecessor %q", prev))
			}
			prev = entry.Key
		}
		for j, match := range entry.Matches {
			matchAt := fmt.Sprintf("%s/%d", at, j)
			if match.Label == "" {
				report.Add(vo.SeverityError, matchAt, "search match has no label")
			}
			if match.Link == "" {
				report.Add(vo.SeverityError, matchAt, "search match has no link")
			} else if !wellFormedLink(match.Link) {
				report.Add(vo.SeverityError, matchAt, fmt.Sprintf("malformed search link %q", match.Link))
			}
		}
	}
}

func validateMembers(report *vo.Report, members []vo.Member, pages map[string]struct{}, resolve bool) {
	seen := make(map[string]struct{}, len(members))
	for i, m := range members {
		at := fmt.Sprintf("members:%s::%s", m.Namespace, m.Name)
		if m.Name == "" {
			report.Add(vo.SeverityError, fmt.Sprintf("members:#%d", i), "member row has no name")
		}
		switch {
		case m.Link == "":
			report.Add(vo.SeverityError, at, "member row has no link")
		case !wellFormedLink(m.Link):
			report.Add(vo.SeverityError, at, fmt.Sprintf("malformed member link %q", m.Link))
		case resolve:
			if _, ok := pages[linkFile(m.Link)]; !ok {
				report.Add(vo.SeverityWarning, at, fmt.Sprintf("member link %q does not resolve to a known page", m.Link))
			}
		}
		key := m.Namespace + "\x00" + m.Name + "\x00" + m.Link
		if _, dup := seen[key]; dup {
			report.Add(vo.SeverityWarning, at, "duplicate member row")
		}
		seen[key] = struct{}{}
	}
}
