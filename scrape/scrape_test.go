package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<html><head>
<title>crewai::Agent Class Reference</title>
<meta name="description" content="Represents an agent in a system.">
<meta name="keywords" content="crewai, agent">
</head><body>
<div id="top">navigation chrome</div>
<div class="contents">
<h1>Agent</h1>
<p>Represents an <b>agent</b> in a system.</p>
<script>var ignored = true;</script>
</div>
</body></html>`

func newTestPageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestScrape(t *testing.T) {
	server := newTestPageServer(t)

	summary, markdown, err := Scrape(context.Background(), server.Client(), server.URL, "div.contents")
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, server.URL, summary.URL)
	assert.Equal(t, "crewai::Agent Class Reference", summary.Title)
	assert.Equal(t, "Represents an agent in a system.", summary.Description)
	assert.Equal(t, []string{"crewai", "agent"}, summary.Keywords)

	assert.Contains(t, string(markdown), "Agent")
	assert.NotContains(t, string(markdown), "ignored")
	assert.NotContains(t, string(markdown), "navigation chrome")
}

func TestScrapeSelectorNotFound(t *testing.T) {
	server := newTestPageServer(t)

	_, _, err := Scrape(context.Background(), server.Client(), server.URL, "#does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestScrapeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := Scrape(context.Background(), server.Client(), server.URL, "div.contents")
	require.Error(t, err)
}
