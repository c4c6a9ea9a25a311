package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePageDocument(t *testing.T) {
	content, err := compilePageDocument(pageDocument{
		Title:    "crewai Namespace Reference",
		URL:      "https://docs.example.com/namespacecrewai.html",
		Path:     "namespacecrewai.html",
		Children: []string{"Agent", "Crew"},
		Members:  []string{"crewai::Agent", "crewai::kickoff()"},
	})
	require.NoError(t, err)

	assert.Contains(t, content, "Title: crewai Namespace Reference")
	assert.Contains(t, content, "URL: https://docs.example.com/namespacecrewai.html")
	assert.Contains(t, content, "  - Agent")
	assert.Contains(t, content, "  - crewai::kickoff()")
}

func TestCompilePageDocumentOmitsEmptySections(t *testing.T) {
	content, err := compilePageDocument(pageDocument{
		Title: "Class List",
		URL:   "annotated.html",
		Path:  "annotated.html",
	})
	require.NoError(t, err)
	assert.NotContains(t, content, "Subpages:")
	assert.NotContains(t, content, "Members:")
}

func TestPageURL(t *testing.T) {
	assert.Equal(t,
		"https://docs.example.com/classcrewai_1_1_agent.html",
		pageURL("https://docs.example.com/", "../classcrewai_1_1_agent.html"),
	)
	assert.Equal(t,
		"https://docs.example.com/index.html",
		pageURL("https://docs.example.com", "index.html"),
	)
	assert.Equal(t, "index.html", pageURL("", "index.html"))
}

func TestPageFile(t *testing.T) {
	assert.Equal(t, "namespacecrewai.html", pageFile("../namespacecrewai.html#a1"))
	assert.Equal(t, "index.html", pageFile("index.html"))
}
