package doxygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNavTree(t *testing.T) {
	src := []byte(`var NAVTREE =
[
  [ "crewAI", "index.html", [
    [ "Namespaces", "namespaces.html", [
      [ "crewai", "namespacecrewai.html", null ]
    ] ],
    [ "Classes", "annotated.html", "annotated" ],
    [ "Modules", null, null ]
  ] ]
];
var NAVTREEINDEX =
[
  "index.html",
  "namespaces.html"
];`)
	tree, pages, skipped, err := ParseNavTree(src)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, []string{"index.html", "namespaces.html"}, pages)

	require.Len(t, tree, 1)
	root := tree[0]
	assert.Equal(t, "crewAI", root.Label)
	assert.Equal(t, "index.html", root.Link)
	require.Len(t, root.Children, 3)

	namespaces := root.Children[0]
	require.Len(t, namespaces.Children, 1)
	assert.Equal(t, "crewai", namespaces.Children[0].Label)
	assert.Equal(t, "namespacecrewai.html", namespaces.Children[0].Link)

	// continuation shard reference yields no inline children
	assert.Empty(t, root.Children[1].Children)
	// grouping node keeps its label, link stays empty
	assert.Equal(t, "Modules", root.Children[2].Label)
	assert.Empty(t, root.Children[2].Link)
}

func TestParseNavTreeSkipsMalformedEntries(t *testing.T) {
	src := []byte(`var NAVTREE = [ [ "ok", "index.html", null ], [ 42, "bad.html", null ], "not-an-entry" ];`)
	tree, _, skipped, err := ParseNavTree(src)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "ok", tree[0].Label)
	assert.Equal(t, 2, skipped)
}

func TestParseNavTreeMissingDeclaration(t *testing.T) {
	_, _, _, err := ParseNavTree([]byte(`var OTHER = [];`))
	require.Error(t, err)
}

func TestParseNavTreeMalformedSource(t *testing.T) {
	_, _, _, err := ParseNavTree([]byte(`var NAVTREE = [ [ "broken`))
	require.Error(t, err)
}
