package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linwei/smartliving/internal/infra/llm/deepseek"
)

// DeepSeekEmbedder calls an OpenAI-compatible embeddings API.
type DeepSeekEmbedder struct {
	client *deepseek.Client
	model  string
	logger *slog.Logger
}

// NewDeepSeekEmbedder constructs an embedder backed by the DeepSeek client.
func NewDeepSeekEmbedder(client *deepseek.Client, model string, logger *slog.Logger) *DeepSeekEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeepSeekEmbedder{
		client: client,
		model:  strings.TrimSpace(model),
		logger: logger.With("component", "embedder.deepseek"),
	}
}

// Embed requests embeddings for the given texts.
func (e *DeepSeekEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.client.CreateEmbeddings(ctx, deepseek.EmbeddingRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		e.logger.Warn("embedding result count mismatch", "expected", len(texts), "got", len(resp.Data))
	}
	out := make([][]float32, 0, len(resp.Data))
	for _, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		copy(vec, item.Embedding)
		out = append(out, vec)
	}
	return out, nil
}
