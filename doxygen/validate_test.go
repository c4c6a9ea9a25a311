package doxygen

import (
	"testing"

	"github.com/doxnav/doxnav-mcp/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanBundle() vo.Bundle {
	return vo.Bundle{
		Tree: []vo.NavNode{
			{Label: "crewAI", Link: "index.html", Children: []vo.NavNode{
				{Label: "Namespaces", Link: "namespaces.html"},
				{Label: "Classes", Link: "annotated.html", Children: []vo.NavNode{
					{Label: "Agent", Link: "classcrewai_1_1_agent.html"},
				}},
			}},
		},
		Search: []vo.SearchEntry{
			{Key: "agent", Matches: []vo.SearchMatch{{Label: "Agent", Link: "../classcrewai_1_1_agent.html", Scope: "crewai::Agent"}}},
			{Key: "crew", Matches: []vo.SearchMatch{{Label: "Crew", Link: "../annotated.html", Scope: "crewai::Crew"}}},
		},
		Members: []vo.Member{
			{Namespace: "crewai", Name: "Agent", Link: "namespacecrewai.html#a1"},
			{Namespace: "crewai", Name: "Crew", Link: "namespacecrewai.html#a2"},
		},
	}
}

func TestValidateCleanBundle(t *testing.T) {
	report := Validate(cleanBundle())
	assert.True(t, report.OK())
	assert.Zero(t, report.Errors())
	assert.Zero(t, report.Warnings())
}

func TestValidateNavFindings(t *testing.T) {
	bundle := vo.Bundle{
		Pages: []string{"index.html"},
		Tree: []vo.NavNode{
			{Label: "Root", Link: "index.html", Children: []vo.NavNode{
				{Label: "", Link: "index.html"},                       // missing label: error
				{Label: "Group"},                                      // grouping node: warning
				{Label: "External", Link: "https://example.com/a.html"}, // absolute link: error
				{Label: "Gone", Link: "missing.html"},                 // unresolved: warning
			}},
		},
	}
	report := Validate(bundle)
	assert.Equal(t, 2, report.Errors())
	assert.Equal(t, 2, report.Warnings())
	assert.False(t, report.OK())
}

func TestValidateNavLinkResolutionNeedsIndex(t *testing.T) {
	// Without NAVTREEINDEX there is nothing to resolve against, so an
	// unknown page cannot be flagged.
	bundle := vo.Bundle{
		Tree: []vo.NavNode{{Label: "Root", Link: "unlisted.html"}},
	}
	report := Validate(bundle)
	assert.True(t, report.OK())
	assert.Zero(t, report.Warnings())
}

func TestValidateSearchFindings(t *testing.T) {
	bundle := vo.Bundle{
		Search: []vo.SearchEntry{
			{Key: "zeta", Matches: []vo.SearchMatch{{Label: "Zeta", Link: "z.html"}}},
			{Key: "Agent", Matches: []vo.SearchMatch{{Label: "Agent", Link: "a.html"}}}, // not lower-case + out of order
			{Key: "crew", Matches: []vo.SearchMatch{{Label: "", Link: ""}}},             // missing label and link
		},
	}
	report := Validate(bundle)
	assert.Equal(t, 2, report.Errors())
	assert.Equal(t, 2, report.Warnings())
}

func TestValidateMemberFindings(t *testing.T) {
	bundle := vo.Bundle{
		Members: []vo.Member{
			{Namespace: "crewai", Name: "Agent", Link: "namespacecrewai.html#a1"},
			{Namespace: "crewai", Name: "Agent", Link: "namespacecrewai.html#a1"}, // duplicate: warning
			{Namespace: "crewai", Name: "Task", Link: ""},                         // missing link: error
		},
	}
	report := Validate(bundle)
	assert.Equal(t, 1, report.Errors())
	assert.Equal(t, 1, report.Warnings())
}

func TestValidateCarriesSkippedCount(t *testing.T) {
	bundle := cleanBundle()
	bundle.Skipped = 3
	report := Validate(bundle)
	require.Equal(t, 3, report.Skipped)
	assert.True(t, report.OK())
}

func TestWellFormedLink(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"index.html", true},
		{"classcrewai_1_1_agent.html#a3f", true},
		{"../annotated.html", true},
		{"dir/page.xhtml", true},
		{"https://example.com/a.html", false},
		{"/absolute.html", false},
		{"../../escape.html", false},
		{"no-extension", false},
		{"page.html#bad anchor", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wellFormedLink(tt.link), tt.link)
	}
}
