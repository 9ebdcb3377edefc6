package chroma

import (
	"context"
	"fmt"
	"net/http"

	"github.com/papercomputeco/namematch/pkg/vector"
)

// collection implements vector.Driver for one Chroma collection.
type collection struct {
	store *Store
	id    string
	name  string
}

func (c *collection) endpoint(op string) string {
	return c.store.endpoint(c.id, op)
}

// Add upserts documents with their embeddings and texts.
func (c *collection) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	req := chromaUpsertRequest{
		IDs:        make([]string, len(docs)),
		Embeddings: make([][]float32, len(docs)),
		Documents:  make([]string, len(docs)),
	}
	for i, doc := range docs {
		req.IDs[i] = doc.ID
		req.Embeddings[i] = doc.Embedding
		req.Documents[i] = doc.Text
	}

	if err := c.store.do(ctx, http.MethodPost, c.endpoint("upsert"), req, nil); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	c.store.logger.Debug("added documents to chroma",
		"collection", c.name,
		"count", len(docs),
	)

	return nil
}

// Query finds the topK most similar documents to the given embedding.
func (c *collection) Query(ctx context.Context, embedding []float32, topK int) ([]vector.Match, error) {
	if topK <= 0 {
		topK = vector.DefaultTopK
	}

	var queryResp chromaQueryResponse
	err := c.store.do(ctx, http.MethodPost, c.endpoint("query"), chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Include:         []string{"documents", "distances"},
	}, &queryResp)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	results := []vector.Match{}

	// We only query with one embedding
	if len(queryResp.IDs) == 0 {
		return results, nil
	}

	ids := queryResp.IDs[0]
	var distances []float32
	if len(queryResp.Distances) > 0 {
		distances = queryResp.Distances[0]
	}
	var documents []*string
	if len(queryResp.Documents) > 0 {
		documents = queryResp.Documents[0]
	}

	for i, id := range ids {
		m := vector.Match{Document: vector.Document{ID: id}}
		if i < len(documents) && documents[i] != nil {
			m.Text = *documents[i]
		}
		// cosine distance to relevance
		if i < len(distances) {
			m.Score = 1 - distances[i]
		}
		results = append(results, m)
	}

	c.store.logger.Debug("queried chroma",
		"collection", c.name,
		"results", len(results),
	)

	return results, nil
}

// Count returns the number of documents in the collection.
func (c *collection) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.store.do(ctx, http.MethodGet, c.endpoint("count"), nil, &n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
