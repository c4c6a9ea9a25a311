package site

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testNavTree = `var NAVTREE =
[
  [ "crewAI", "index.html", [
    [ "Classes", "annotated.html", null ]
  ] ]
];
var NAVTREEINDEX = [ "index.html", "annotated.html" ];`

const testSearchShard = `var searchData=
[
  ['agent_0',['Agent',['../classcrewai_1_1_agent.html',1,'crewai::Agent']]]
];`

const testMembersPage = `<div class="contents"><ul>
<li>Agent : <a class="el" href="namespacecrewai.html#a1">crewai</a></li>
</ul></div>`

// countingSite serves a minimal Doxygen site and records request counts
// per path.
func countingSite(t *testing.T) (*httptest.Server, func(path string) int) {
	t.Helper()
	var mu sync.Mutex
	counts := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		counts[r.URL.Path]++
		mu.Unlock()
		switch r.URL.Path {
		case "/docs/navtreedata.js":
			w.Write([]byte(testNavTree))
		case "/docs/search/all_0.js":
			w.Write([]byte(testSearchShard))
		case "/docs/namespacemembers.html":
			w.Write([]byte(testMembersPage))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return counts[path]
	}
}

func TestLoaderLoadsBundle(t *testing.T) {
	server, _ := countingSite(t)
	source := NewHTTPSource(server.URL+"/docs", server.Client(), 0)
	loader := NewLoader(source, zap.NewNop(), server.URL+"/docs")

	bundle, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, bundle.Tree, 1)
	assert.Equal(t, "crewAI", bundle.Tree[0].Label)
	assert.Equal(t, []string{"index.html", "annotated.html"}, bundle.Pages)
	require.Len(t, bundle.Search, 1)
	assert.Equal(t, "agent", bundle.Search[0].Key)
	require.Len(t, bundle.Members, 1)
	assert.Equal(t, "crewai", bundle.Members[0].Namespace)
	assert.Equal(t, server.URL+"/docs", bundle.BaseURL)
}

func TestLoaderCachesArtifacts(t *testing.T) {
	server, count := countingSite(t)
	source := NewHTTPSource(server.URL+"/docs", server.Client(), 0)
	loader := NewLoader(source, zap.NewNop(), server.URL+"/docs")
	ctx := context.Background()

	_, err := loader.Load(ctx)
	require.NoError(t, err)
	_, err = loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count("/docs/navtreedata.js"))

	loader.Invalidate()
	_, err = loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count("/docs/navtreedata.js"))
}

func TestLoaderReadsAllSearchShards(t *testing.T) {
	// Shards are numbered sequentially in hex; a site with a full symbol
	// alphabet goes past all_f.js, so all_10.js must be fetched too.
	const shardCount = 17
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/navtreedata.js" {
			w.Write([]byte(testNavTree))
			return
		}
		for i := 0; i < shardCount; i++ {
			if r.URL.Path == fmt.Sprintf("/search/all_%x.js", i) {
				fmt.Fprintf(w, "var searchData=\n[\n  ['key%d_0',['Key%d',['../index.html',1,'crewai']]]\n];", i, i)
				return
			}
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	loader := NewLoader(NewHTTPSource(server.URL, server.Client(), 0), zap.NewNop(), server.URL)
	bundle, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, bundle.Search, shardCount)

	keys := map[string]bool{}
	for _, entry := range bundle.Search {
		keys[entry.Key] = true
	}
	assert.True(t, keys["key16"], "entries from all_10.js are missing")
}

func TestLoaderMissingNavTree(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	loader := NewLoader(NewHTTPSource(server.URL, server.Client(), 0), zap.NewNop(), server.URL)

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPSourceStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	source := NewHTTPSource(server.URL, server.Client(), 0)

	_, err := source.Get(context.Background(), "navtreedata.js")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "navtreedata.js"), []byte(testNavTree), 0o644))
	source := NewDirSource(dir)
	ctx := context.Background()

	body, err := source.Get(ctx, "navtreedata.js")
	require.NoError(t, err)
	assert.Equal(t, testNavTree, string(body))

	_, err = source.Get(ctx, "search/all_0.js")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = source.Get(ctx, "../escape.js")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDirSourceLoadsBundle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "navtreedata.js"), []byte(testNavTree), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "search"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "search", "all_0.js"), []byte(testSearchShard), 0o644))

	loader := NewLoader(NewDirSource(dir), zap.NewNop(), "")
	bundle, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, bundle.Tree, 1)
	require.Len(t, bundle.Search, 1)
	assert.Empty(t, bundle.Members)
}

func TestCache(t *testing.T) {
	cache := NewCache()
	_, ok := cache.Read("a")
	assert.False(t, ok)

	cache.Add("a", []byte("body"))
	body, ok := cache.Read("a")
	require.True(t, ok)
	assert.Equal(t, "body", string(body))
	assert.Equal(t, 1, cache.Len())

	cache.Invalidate()
	assert.Zero(t, cache.Len())
}
