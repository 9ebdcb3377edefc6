package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/papercomputeco/namematch/pkg/embeddings"
)

// Collection pairs a collection Driver with the Embedder used to vectorize
// its texts, so callers can insert and search by plain text.
type Collection struct {
	name     string
	driver   Driver
	embedder embeddings.Embedder
}

// NewCollection wraps driver and embedder for the named collection.
func NewCollection(name string, driver Driver, embedder embeddings.Embedder) *Collection {
	return &Collection{
		name:     name,
		driver:   driver,
		embedder: embedder,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// AddTexts embeds texts in one batch and stores them under fresh IDs.
// It returns the assigned IDs in input order.
func (c *Collection) AddTexts(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vecs, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", embeddings.ErrEmbedding, len(texts), len(vecs))
	}

	ids := make([]string, len(texts))
	docs := make([]Document, len(texts))
	for i, text := range texts {
		ids[i] = uuid.NewString()
		docs[i] = Document{
			ID:        ids[i],
			Text:      text,
			Embedding: vecs[i],
		}
	}

	if err := c.driver.Add(ctx, docs); err != nil {
		return nil, fmt.Errorf("storing documents in %q: %w", c.name, err)
	}
	return ids, nil
}

// SimilaritySearch embeds query and returns the k most relevant documents.
func (c *Collection) SimilaritySearch(ctx context.Context, query string, k int) ([]Match, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vec, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := c.driver.Query(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", c.name, err)
	}
	return matches, nil
}

// Count returns the number of documents stored in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	return c.driver.Count(ctx)
}
