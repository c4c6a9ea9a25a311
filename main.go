package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strconv"

	"github.com/doxnav/doxnav-mcp/indexer"
	"github.com/doxnav/doxnav-mcp/mcp"
	"github.com/doxnav/doxnav-mcp/service"
	"github.com/doxnav/doxnav-mcp/site"
	"github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func main() {
	// Define command line flags
	stdioMode := flag.Bool("stdio", true, "Run in stdio mode")
	httpAddr := flag.String("http", "", "HTTP server address (e.g., ':8080')")
	endpoint := flag.String("endpoint", "/mcp", "HTTP endpoint path")
	baseURL := flag.String("base-url", "", "Base URL of the published Doxygen site")
	dir := flag.String("dir", "", "Local Doxygen html output directory")
	selector := flag.String("selector", "div.contents", "CSS selector for the page content region")
	maxRPM := flag.Int("max-rpm", 0, "Maximum artifact requests per minute (0 = unlimited)")
	validateOnly := flag.Bool("validate", false, "Load the index, print the validation report and exit")
	reindex := flag.Bool("reindex", false, "Rebuild the semantic index on startup (requires OPENAI_API_KEY and QDRANT_HOST)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	var source site.Source
	switch {
	case *dir != "":
		source = site.NewDirSource(*dir)
	case *baseURL != "":
		source = site.NewHTTPSource(*baseURL, http.DefaultClient, *maxRPM)
	default:
		logger.Fatal("either -base-url or -dir is required")
	}

	ctx := context.Background()
	loader := site.NewLoader(source, logger, *baseURL)
	svc := service.NewService(service.SiteSettings{
		BaseURL:         *baseURL,
		ContentSelector: *selector,
	}, http.DefaultClient, loader, logger)

	if err := svc.Reload(ctx); err != nil {
		logger.Fatal("failed to load documentation bundle", zap.Error(err))
	}

	if *validateOnly {
		report, err := svc.Validate(ctx)
		if err != nil {
			logger.Fatal("failed to validate bundle", zap.Error(err))
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			logger.Fatal("failed to encode report", zap.Error(err))
		}
		if !report.OK() {
			os.Exit(1)
		}
		return
	}

	semanticIndex := newSemanticIndex(ctx, logger, svc, *reindex)

	s := mcp.NewServer(http.DefaultClient, svc, semanticIndex)

	if *httpAddr != "" {
		logger.Info("starting MCP server", zap.String("addr", *httpAddr), zap.String("endpoint", *endpoint))
		httpServer := mcp.NewMcpHTTPSSEServer(logger, s, svc, *endpoint, nil)
		if err := http.ListenAndServe(*httpAddr, httpServer); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
		return
	}
	if *stdioMode {
		logger.Info("starting MCP server in stdio mode")
	} else {
		logger.Info("starting MCP server in stdio mode (default)")
	}
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("stdio server failed", zap.Error(err))
	}
}

// newSemanticIndex builds the optional semantic index from environment
// configuration. Returns nil when it is not configured.
func newSemanticIndex(ctx context.Context, logger *zap.Logger, svc service.Service, reindex bool) *indexer.Indexer {
	apiKey := os.Getenv("OPENAI_API_KEY")
	host := os.Getenv("QDRANT_HOST")
	if apiKey == "" || host == "" {
		return nil
	}

	port := 6334
	if p := os.Getenv("QDRANT_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			logger.Fatal("invalid QDRANT_PORT", zap.String("value", p))
		}
		port = parsed
	}
	collection := os.Getenv("DOXNAV_COLLECTION")
	if collection == "" {
		collection = "doxnav-pages"
	}

	model := indexer.NewOpenAIEmbeddingModel(openai.NewClient(apiKey))
	semanticIndex, err := indexer.New(indexer.Config{
		Collection:   collection,
		QdrantHost:   host,
		QdrantPort:   port,
		QdrantAPIKey: os.Getenv("QDRANT_API_KEY"),
		UseTLS:       os.Getenv("QDRANT_USE_TLS") == "true",
	}, model, logger)
	if err != nil {
		logger.Fatal("failed to create semantic index", zap.Error(err))
	}

	if reindex {
		bundle, err := svc.Bundle(ctx)
		if err != nil {
			logger.Fatal("failed to read bundle for indexing", zap.Error(err))
		}
		if err := semanticIndex.IndexBundle(ctx, bundle); err != nil {
			logger.Warn("semantic indexing failed", zap.Error(err))
		}
	}
	return semanticIndex
}
