package testutils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/papercomputeco/namematch/pkg/vector"
)

// MockVectorStore is an in-memory vector.Store that ranks by cosine
// similarity and records how it was used.
type MockVectorStore struct {
	Collections map[string]*MockCollection

	// FailOpen causes Open to return an error.
	FailOpen bool

	// FailDelete causes DeleteCollection to return a connection error.
	FailDelete bool

	// Closed is set once Close has been called.
	Closed bool
}

func NewMockVectorStore() *MockVectorStore {
	return &MockVectorStore{
		Collections: make(map[string]*MockCollection),
	}
}

func (m *MockVectorStore) Open(_ context.Context, name string) (vector.Driver, error) {
	if m.FailOpen {
		return nil, fmt.Errorf("%w: mock open failure", vector.ErrConnection)
	}
	c, ok := m.Collections[name]
	if !ok {
		c = &MockCollection{}
		m.Collections[name] = c
	}
	return c, nil
}

func (m *MockVectorStore) DeleteCollection(_ context.Context, name string) error {
	if m.FailDelete {
		return fmt.Errorf("%w: mock delete failure", vector.ErrConnection)
	}
	if _, ok := m.Collections[name]; !ok {
		return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}
	delete(m.Collections, name)
	return nil
}

func (m *MockVectorStore) Close() error {
	m.Closed = true
	return nil
}

// MockCollection is the vector.Driver handed out by MockVectorStore.
type MockCollection struct {
	Documents []vector.Document

	// FailAdd causes Add to return an error.
	FailAdd bool

	// FailQuery causes Query to return an error.
	FailQuery bool

	// Queries counts Query calls.
	Queries int
}

func (c *MockCollection) Add(_ context.Context, docs []vector.Document) error {
	if c.FailAdd {
		return errors.New("mock add failure")
	}
	c.Documents = append(c.Documents, docs...)
	return nil
}

func (c *MockCollection) Query(_ context.Context, embedding []float32, topK int) ([]vector.Match, error) {
	c.Queries++
	if c.FailQuery {
		return nil, errors.New("mock query failure")
	}

	matches := make([]vector.Match, 0, len(c.Documents))
	for _, d := range c.Documents {
		matches = append(matches, vector.Match{Document: d, Score: cosine(embedding, d.Embedding)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (c *MockCollection) Count(_ context.Context) (int, error) {
	return len(c.Documents), nil
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range min(len(a), len(b)) {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
