package doxygen

import (
	"strings"
	"testing"

	"github.com/doxnav/doxnav-mcp/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const membersHTML = `<html><body>
<div id="top">chrome</div>
<div class="contents">
<h3>- a -</h3>
<ul>
<li>agent() : <a class="el" href="namespacecrewai_1_1agent.html#a12">crewai::agent</a></li>
<li>Agent : <a class="el" href="namespacecrewai.html#a1f">crewai</a></li>
</ul>
<h3>- k -</h3>
<ul>
<li>kickoff() : <a class="el" href="classcrewai_1_1_crew.html#a77">crewai::Crew</a></li>
<li><a href="other.html">plain anchor without el class</a></li>
</ul>
</div>
</body></html>`

func TestParseMembers(t *testing.T) {
	members, err := ParseMembers(strings.NewReader(membersHTML), "")
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.Equal(t, vo.Member{
		Namespace: "crewai::agent",
		Name:      "agent()",
		Link:      "namespacecrewai_1_1agent.html#a12",
	}, members[0])
	assert.Equal(t, vo.Member{
		Namespace: "crewai",
		Name:      "Agent",
		Link:      "namespacecrewai.html#a1f",
	}, members[1])
	assert.Equal(t, "kickoff()", members[2].Name)
	assert.Equal(t, "crewai::Crew", members[2].Namespace)
}

func TestParseMembersFallbackNamespace(t *testing.T) {
	html := `<div class="contents"><ul><li>run() : <a class="el" href="page.html#a0"></a></li></ul></div>`
	members, err := ParseMembers(strings.NewReader(html), "crewai")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "crewai", members[0].Namespace)
	assert.Equal(t, "run()", members[0].Name)
}

func TestParseMembersEmptyDocument(t *testing.T) {
	members, err := ParseMembers(strings.NewReader("<html><body></body></html>"), "")
	require.NoError(t, err)
	assert.Empty(t, members)
}
