package vo

type Markdown string

// NavNode is one entry of the site navigation tree. Grouping nodes may
// carry an empty link.
type NavNode struct {
	Label    string    `json:"label"`
	Link     string    `json:"link,omitempty"`
	Children []NavNode `json:"children,omitempty"`
}

// Member is one row of the namespace member index.
type Member struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Link      string `json:"link"`
}

// SearchMatch is one target of a search key.
type SearchMatch struct {
	Label string `json:"label"`
	Link  string `json:"link"`
	Scope string `json:"scope,omitempty"` // qualifying snippet, e.g. "crewai::Agent"
}

// SearchEntry is one row of the search index, keyed by the normalized
// search term.
type SearchEntry struct {
	Key     string        `json:"key"`
	Matches []SearchMatch `json:"matches"`
}

// SearchHit is a flattened search result as returned to clients.
type SearchHit struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Link  string `json:"link"`
	Scope string `json:"scope,omitempty"`
}

// SemanticHit is a scored result from the semantic index.
type SemanticHit struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float32 `json:"score"`
}

// Bundle holds the three loaded index tables of one documentation site.
type Bundle struct {
	BaseURL string        `json:"baseUrl,omitempty"`
	Tree    []NavNode     `json:"tree"`
	Pages   []string      `json:"pages,omitempty"` // NAVTREEINDEX page links, may be empty
	Search  []SearchEntry `json:"search"`
	Members []Member      `json:"members"`
	Skipped int           `json:"skipped,omitempty"` // malformed rows dropped at parse time
}

type ContentSummary struct {
	Title       string   `json:"title"`       // Page title
	Description string   `json:"description"` // Meta description
	Keywords    []string `json:"keywords,omitempty"`
}

type PageSummary struct {
	URL            string `json:"url"`  // Absolute URL of the page
	Path           string `json:"path"` // Link relative to the site root
	ContentSummary `json:"contentSummary"`
}

type Page struct {
	PageSummary PageSummary `json:"summary"`
	Markdown    Markdown    `json:"markdown,omitempty"` // Page content in markdown

	Breadcrumb   []PageSummary `json:"breadcrumb,omitempty"` // Ancestors, root first
	Children     []PageSummary `json:"children,omitempty"`
	PrevSiblings []PageSummary `json:"prev,omitempty"`
	NextSiblings []PageSummary `json:"next,omitempty"`
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one well-formedness finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"` // tree path or table key the issue points at
	Message  string   `json:"message"`
}

// Report is the outcome of validating a bundle.
type Report struct {
	Issues  []Issue `json:"issues"`
	Skipped int     `json:"skipped,omitempty"` // rows already dropped by the parsers
}

func (r *Report) Add(severity Severity, path, message string) {
	r.Issues = append(r.Issues, Issue{Severity: severity, Path: path, Message: message})
}

func (r Report) Errors() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (r Report) Warnings() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// OK reports whether the bundle is structurally sound. Warnings do not
// fail a bundle.
func (r Report) OK() bool {
	return r.Errors() == 0
}
