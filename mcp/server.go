package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/doxnav/doxnav-mcp/indexer"
	"github.com/doxnav/doxnav-mcp/scrape"
	"github.com/doxnav/doxnav-mcp/service"
	"github.com/doxnav/doxnav-mcp/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.1.0"

type SearchRequest struct {
	Query string `json:"query"`           // Search term prefix
	Limit int    `json:"limit,omitempty"` // Maximum number of hits
}

type SearchResponse struct {
	Hits []vo.SearchHit `json:"hits"`
}

type GetPageRequest struct {
	Path string `json:"path"` // Page link relative to the site root
}

type GetPageResponse struct {
	Page *vo.Page `json:"page"` // The page with breadcrumb, siblings and children
}

type MembersRequest struct {
	Namespace string `json:"namespace,omitempty"` // Empty lists every member
}

type MembersResponse struct {
	Members []vo.Member `json:"members"`
}

type ValidateResponse struct {
	Report vo.Report `json:"report"`
}

type ScrapeRequest struct {
	URL      string `json:"url"`      // The URL to scrape
	Selector string `json:"selector"` // CSS selector to extract content
}

type ScrapeResponse struct {
	Summary  *vo.PageSummary `json:"summary"`
	Markdown string          `json:"markdown"`
}

type SemanticSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SemanticSearchResponse struct {
	Hits []vo.SemanticHit `json:"hits"`
}

// NewServer creates an MCP server exposing the documentation index
// tools. The semantic search tool is registered only when an indexer is
// provided.
func NewServer(client *http.Client, serviceInstance service.Service, semanticIndex *indexer.Indexer) *server.MCPServer {
	if client == nil {
		client = http.DefaultClient
	}
	s := server.NewMCPServer(
		"Doxygen Navigation MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape",
		mcp.WithDescription("Scrape content from a documentation page and convert it to markdown"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to scrape"),
		),
		mcp.WithString("selector",
			mcp.Required(),
			mcp.Description("CSS selector to extract specific content (e.g., 'div.contents', '#doc-content')"),
		),
	)
	s.AddTool(scrapeTool, mcp.NewTypedToolHandler(getScrapeHandler(client)))

	if serviceInstance != nil {
		searchTool := mcp.NewTool("searchSymbols",
			mcp.WithDescription("Search the documentation symbol index by name prefix"),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The symbol name prefix to search for"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of hits to return"),
			),
		)
		s.AddTool(searchTool, mcp.NewTypedToolHandler(getSearchHandler(serviceInstance)))

		getPageTool := mcp.NewTool("getPage",
			mcp.WithDescription("Get a documentation page with breadcrumb, siblings, children and markdown content"),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("The page link relative to the site root, e.g. 'classcrewai_1_1_agent.html'"),
			),
		)
		s.AddTool(getPageTool, mcp.NewTypedToolHandler(getPageHandler(serviceInstance)))

		membersTool := mcp.NewTool("listNamespaceMembers",
			mcp.WithDescription("List the documented members of a namespace"),
			mcp.WithString("namespace",
				mcp.Description("The namespace to list; omit to list every member"),
			),
		)
		s.AddTool(membersTool, mcp.NewTypedToolHandler(getMembersHandler(serviceInstance)))

		validateTool := mcp.NewTool("validateIndex",
			mcp.WithDescription("Validate the structural well-formedness of the loaded documentation index"),
		)
		s.AddTool(validateTool, mcp.NewTypedToolHandler(getValidateHandler(serviceInstance)))
	}

	if semanticIndex != nil {
		semanticTool := mcp.NewTool("semanticSearch",
			mcp.WithDescription("Search documentation pages by meaning instead of symbol prefix"),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Natural language description of what to find"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of pages to return"),
			),
		)
		s.AddTool(semanticTool, mcp.NewTypedToolHandler(getSemanticSearchHandler(semanticIndex)))
	}

	return s
}

// jsonResult marshals a response into a text tool result, mapping
// failures onto tool errors.
func jsonResult(response any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}

func getScrapeHandler(client *http.Client) func(ctx context.Context, request mcp.CallToolRequest, args ScrapeRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ScrapeRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		if args.Selector == "" {
			return mcp.NewToolResultError("selector is required"), nil
		}
		summary, markdown, err := scrape.Scrape(ctx, client, args.URL, args.Selector)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to scrape content: %v", err)), nil
		}
		return jsonResult(ScrapeResponse{
			Summary:  summary,
			Markdown: string(markdown),
		})
	}
}

func getSearchHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
		if args.Query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		hits, err := serviceInstance.SearchSymbols(ctx, args.Query, args.Limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search symbols: %v", err)), nil
		}
		return jsonResult(SearchResponse{Hits: hits})
	}
}

func getPageHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
		if args.Path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		page, err := serviceInstance.GetPage(ctx, args.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get page: %v", err)), nil
		}
		return jsonResult(GetPageResponse{Page: page})
	}
}

func getMembersHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args MembersRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args MembersRequest) (*mcp.CallToolResult, error) {
		members, err := serviceInstance.NamespaceMembers(ctx, args.Namespace)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list members: %v", err)), nil
		}
		return jsonResult(MembersResponse{Members: members})
	}
}

func getValidateHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
		report, err := serviceInstance.Validate(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to validate index: %v", err)), nil
		}
		return jsonResult(ValidateResponse{Report: report})
	}
}

func getSemanticSearchHandler(semanticIndex *indexer.Indexer) func(ctx context.Context, request mcp.CallToolRequest, args SemanticSearchRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SemanticSearchRequest) (*mcp.CallToolResult, error) {
		if args.Query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		hits, err := semanticIndex.Search(ctx, args.Query, args.Limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search semantically: %v", err)), nil
		}
		return jsonResult(SemanticSearchResponse{Hits: hits})
	}
}
