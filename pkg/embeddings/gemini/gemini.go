// Package gemini implements pkg/embeddings' Embedder client for Google's
// Gemini embedding API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/papercomputeco/namematch/pkg/embeddings"
)

const (
	// DefaultEmbeddingModel is the default model used for embeddings.
	DefaultEmbeddingModel = "text-embedding-004"

	// maxBatch is the number of texts the API accepts per request.
	maxBatch = 100
)

// Embedder wraps the Gemini embedding API.
type Embedder struct {
	client     *genai.Client
	model      string
	dimensions uint
}

// EmbedderConfig holds configuration for the Gemini embedder.
type EmbedderConfig struct {
	// APIKey is the Google AI API key. Required.
	APIKey string

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string

	// Model is the embedding model to use.
	// Defaults to DefaultEmbeddingModel if empty.
	Model string

	// Dimensions truncates the returned vectors when non-zero.
	Dimensions uint
}

// NewEmbedder creates a new embedder using the Gemini embedding API.
func NewEmbedder(ctx context.Context, cfg EmbedderConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini embedder requires an API key")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	return &Embedder{
		client:     client,
		model:      model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed converts text into a vector embedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch converts each text into a vector embedding, splitting large
// inputs across several requests.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, embeddings.ErrEmptyInput
	}

	result := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += maxBatch {
		end := min(i+maxBatch, len(texts))
		vecs, err := e.callAPI(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("%w: batch [%d:%d]: %v", embeddings.ErrEmbedding, i, end, err)
		}
		result = append(result, vecs...)
	}
	return result, nil
}

// Model returns the Gemini model identifier.
func (e *Embedder) Model() string {
	return e.model
}

func (e *Embedder) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	config := &genai.EmbedContentConfig{}
	if e.dimensions > 0 {
		config.OutputDimensionality = genai.Ptr(int32(e.dimensions))
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	vecs := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("missing embedding for index %d", i)
		}
		vecs[i] = emb.Values
	}
	return vecs, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
