package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// extractTitle returns the text of the document's <title> element.
func extractTitle(doc *html.Node) string {
	var title string
	var findTitle func(*html.Node)

	findTitle = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTitle(c)
		}
	}

	findTitle(doc)
	return strings.TrimSpace(title)
}

// extractMeta returns the content of the first <meta name=...> tag with
// the given name.
func extractMeta(doc *html.Node, name string) string {
	var content string
	var findMeta func(*html.Node)

	findMeta = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var metaName, metaContent string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					metaName = attr.Val
				case "content":
					metaContent = attr.Val
				}
			}
			if metaName == name && metaContent != "" {
				content = metaContent
				return
			}
		}
		for c := n.FirstChild; c != nil && content == ""; c = c.NextSibling {
			findMeta(c)
		}
	}

	findMeta(doc)
	return content
}

func extractMetaDescription(doc *html.Node) string {
	return extractMeta(doc, "description")
}

// extractMetaKeywords splits the meta keywords tag on commas, dropping
// empty items.
func extractMetaKeywords(doc *html.Node) []string {
	var keywords []string
	for _, keyword := range strings.Split(extractMeta(doc, "keywords"), ",") {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
