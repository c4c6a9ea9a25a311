package scrape

import (
	"context"
	"fmt"
	"net/http"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/doxnav/doxnav-mcp/service/vo"
)

// chromeSelector matches the Doxygen page chrome that must not end up in
// the extracted markdown.
const chromeSelector = "script, style, #nav-path, #top, #side-nav, .ttc, .footer"

// Scrape downloads a documentation page, extracts the content region by
// CSS selector and converts it to markdown. The returned summary carries
// the page title and meta description/keywords.
func Scrape(ctx context.Context, client *http.Client, url, selector string) (*vo.PageSummary, vo.Markdown, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download HTML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	root := doc.Get(0)
	summary := &vo.PageSummary{
		URL: url,
		ContentSummary: vo.ContentSummary{
			Title:       extractTitle(root),
			Description: extractMetaDescription(root),
			Keywords:    extractMetaKeywords(root),
		},
	}

	content := doc.Find(selector).First()
	if content.Length() == 0 {
		return nil, "", fmt.Errorf("no element matches selector %q", selector)
	}
	content.Find(chromeSelector).Remove()

	markdownBytes, err := htmltomarkdown.ConvertNode(content.Get(0))
	if err != nil {
		return nil, "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return summary, vo.Markdown(markdownBytes), nil
}
