// Package embeddings defines the text embedding client used to turn names
// into vectors.
package embeddings

import (
	"context"
	"errors"
)

var (
	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrEmptyInput is returned when there is nothing to embed.
	ErrEmptyInput = errors.New("embedding input is empty")
)

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts each text into a vector embedding. The result has
	// the same length and order as texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
