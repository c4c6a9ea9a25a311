package indexer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/doxnav/doxnav-mcp/service/vo"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// vectorSize matches openai text-embedding-3-large.
const vectorSize = 3072

type Config struct {
	Collection   string
	QdrantHost   string
	QdrantPort   int
	QdrantAPIKey string
	UseTLS       bool
}

// Indexer embeds documentation pages and stores them as Qdrant points
// keyed by a UUID derived from the page URL, so re-indexing upserts
// instead of duplicating.
type Indexer struct {
	client     *qdrant.Client
	model      EmbeddingModel
	collection string
	logger     *zap.Logger
}

func New(cfg Config, model EmbeddingModel, logger *zap.Logger) (*Indexer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.QdrantHost,
		Port:   cfg.QdrantPort,
		APIKey: cfg.QdrantAPIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &Indexer{
		client:     client,
		model:      model,
		collection: cfg.Collection,
		logger:     logger,
	}, nil
}

func (ix *Indexer) ensureCollectionExists(ctx context.Context) error {
	exists, err := ix.client.CollectionExists(ctx, ix.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}
	if err := ix.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: ix.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// pageDocument is the embedding input compiled for one navigation page.
type pageDocument struct {
	Title    string
	URL      string
	Path     string
	Children []string
	Members  []string
}

var pageTemplate = template.Must(template.New("pageDocument").Parse(`---
Title: {{.Title}}
URL: {{.URL}}
{{if .Children}}Subpages:
{{range .Children}}  - {{.}}
{{end}}{{end}}{{if .Members}}Members:
{{range .Members}}  - {{.}}
{{end}}{{end}}---
`))

func compilePageDocument(doc pageDocument) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to compile page document: %w", err)
	}
	return buf.String(), nil
}

// IndexBundle embeds every linked navigation page and upserts it into
// the collection. Pages are processed concurrently; the first batch of
// failures is reported together.
func (ix *Indexer) IndexBundle(ctx context.Context, bundle *vo.Bundle) error {
	if err := ix.ensureCollectionExists(ctx); err != nil {
		return err
	}

	membersByFile := map[string][]string{}
	for _, m := range bundle.Members {
		file := pageFile(m.Link)
		membersByFile[file] = append(membersByFile[file], m.Namespace+"::"+m.Name)
	}

	var docs []pageDocument
	var walk func(nodes []vo.NavNode)
	walk = func(nodes []vo.NavNode) {
		for _, node := range nodes {
			if node.Link != "" {
				doc := pageDocument{
					Title: node.Label,
					URL:   pageURL(bundle.BaseURL, node.Link),
					Path:  node.Link,
				}
				for _, child := range node.Children {
					doc.Children = append(doc.Children, child.Label)
				}
				doc.Members = membersByFile[pageFile(node.Link)]
				docs = append(docs, doc)
			}
			walk(node.Children)
		}
	}
	walk(bundle.Tree)

	var wg sync.WaitGroup
	resultChan := make(chan error, len(docs))
	for _, doc := range docs {
		wg.Add(1)
		go func(doc pageDocument) {
			defer wg.Done()
			resultChan <- ix.indexPage(ctx, doc)
		}(doc)
	}
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var failures []string
	for err := range resultChan {
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("failed to index pages:\n%s", strings.Join(failures, "\n"))
	}
	ix.logger.Info("indexed documentation pages", zap.Int("pages", len(docs)))
	return nil
}

func (ix *Indexer) indexPage(ctx context.Context, doc pageDocument) error {
	content, err := compilePageDocument(doc)
	if err != nil {
		return err
	}
	vector, err := ix.model.EmbedContent(ctx, content)
	if err != nil {
		return fmt.Errorf("%s: %w", doc.Path, err)
	}

	pointID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(doc.URL))
	point := &qdrant.PointStruct{
		Id: &qdrant.PointId{
			PointIdOptions: &qdrant.PointId_Uuid{Uuid: pointID.String()},
		},
		Vectors: &qdrant.Vectors{
			VectorsOptions: &qdrant.Vectors_Vector{
				Vector: &qdrant.Vector{Data: vector},
			},
		},
		Payload: map[string]*qdrant.Value{
			"title": qdrant.NewValueString(doc.Title),
			"url":   qdrant.NewValueString(doc.URL),
			"path":  qdrant.NewValueString(doc.Path),
		},
	}
	if _, err := ix.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ix.collection,
		Points:         []*qdrant.PointStruct{point},
	}); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", doc.Path, err)
	}
	return nil
}

// Search embeds the query and returns the closest indexed pages.
func (ix *Indexer) Search(ctx context.Context, query string, limit int) ([]vo.SemanticHit, error) {
	if limit <= 0 {
		limit = 10
	}
	vector, err := ix.model.EmbedContent(ctx, query)
	if err != nil {
		return nil, err
	}
	points, err := ix.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ix.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	hits := make([]vo.SemanticHit, 0, len(points))
	for _, point := range points {
		hits = append(hits, vo.SemanticHit{
			Title: point.Payload["title"].GetStringValue(),
			URL:   point.Payload["url"].GetStringValue(),
			Score: point.Score,
		})
	}
	return hits, nil
}

func pageFile(link string) string {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link = link[:i]
	}
	return strings.TrimPrefix(link, "../")
}

func pageURL(baseURL, link string) string {
	if baseURL == "" {
		return pageFile(link)
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + pageFile(link)
}
