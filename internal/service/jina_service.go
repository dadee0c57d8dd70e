package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/hireloop/job-match-backend/internal/config"
)

const embeddingDimensions = 768

type JinaServiceInterface interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// JinaService wraps the Jina embeddings API. One call embeds a whole batch;
// there is no retry or caching here, callers decide whether a failed batch
// means "skip the item" or "reject the page".
type JinaService struct {
	client     *resty.Client
	apiKey     string
	Model      string
	Task       string
	Dimensions int
}

func NewJinaService() *JinaService {
	cfg := config.LoadJinaConfig()
	return &JinaService{
		client:     resty.New().SetBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		Model:      "jina-embeddings-v3",
		Task:       "text-matching",
		Dimensions: embeddingDimensions,
	}
}

type jinaEmbeddingData struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

type jinaEmbeddingResponse struct {
	Data []jinaEmbeddingData `json:"data"`
}

// EmbedTexts embeds all inputs in a single provider call. The response is
// only trusted when it carries exactly one vector per input; anything else
// fails the whole batch so callers never mis-align vectors with inputs.
func (s *JinaService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}
	if s.apiKey == "" {
		return nil, fmt.Errorf("JINA_API_KEY is not set")
	}

	var out jinaEmbeddingResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetBody(map[string]any{
			"model":      s.Model,
			"task":       s.Task,
			"dimensions": s.Dimensions,
			"input":      texts,
		}).
		SetResult(&out).
		Post("/v1/embeddings")
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("embedding request returned %s: %s", resp.Status(), resp.String())
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: requested %d, got %d", len(texts), len(out.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range out.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		if len(item.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}
