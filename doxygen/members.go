package doxygen

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/doxnav/doxnav-mcp/service/vo"
)

// ParseMembers extracts the namespace member index from a
// namespacemembers*.html page. Each row is a list item whose leading text
// is the member name and whose "el" anchor names the declaring namespace:
//
//	<li>kickoff() : <a class="el" href="namespacecrewai.html#a12">crewai</a></li>
//
// fallbackNamespace is used for rows whose anchor carries no namespace
// text.
func ParseMembers(r io.Reader, fallbackNamespace string) ([]vo.Member, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member index HTML: %w", err)
	}

	var members []vo.Member
	doc.Find("div.contents li").Each(func(_ int, s *goquery.Selection) {
		anchor := s.Find("a.el").First()
		if anchor.Length() == 0 {
			return
		}
		link := anchor.AttrOr("href", "")

		// The list item text reads "name : namespace"; the part before
		// the separator is the member name.
		name := strings.TrimSpace(strings.SplitN(s.Text(), ":", 2)[0])
		namespace := strings.TrimSpace(anchor.Text())
		if namespace == "" {
			namespace = fallbackNamespace
		}
		if name == "" {
			return
		}

		members = append(members, vo.Member{
			Namespace: namespace,
			Name:      name,
			Link:      link,
		})
	})
	return members, nil
}
