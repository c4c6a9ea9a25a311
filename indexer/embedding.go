// Package indexer maintains an optional semantic index of documentation
// pages in a Qdrant collection.
package indexer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type EmbeddingModel interface {
	EmbedContent(ctx context.Context, content string) ([]float32, error)
}

type OpenAIEmbeddingModel struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbeddingModel(client *openai.Client) *OpenAIEmbeddingModel {
	return &OpenAIEmbeddingModel{client: client, model: openai.LargeEmbedding3}
}

func (m *OpenAIEmbeddingModel) EmbedContent(ctx context.Context, content string) ([]float32, error) {
	resp, err := m.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{content},
		Model: m.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response carries no data")
	}
	return resp.Data[0].Embedding, nil
}
