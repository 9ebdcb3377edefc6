package testutils

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercomputeco/namematch/pkg/embeddings"
)

// MockDimensions is the size of vectors produced by MockEmbedder.
const MockDimensions = 26

// MockEmbedder is a test embedder that returns predictable embeddings.
// Unless overridden in Embeddings, a text embeds to its letter histogram, so
// identical texts get identical vectors and spelling variants land close.
type MockEmbedder struct {
	Embeddings map[string][]float32

	// FailOn causes Embed to return an error when the input text matches
	FailOn string

	// Calls counts texts embedded so far.
	Calls int
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.Calls++

	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("%w: mock embedding failure for: %s", embeddings.ErrEmbedding, text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	return letterHistogram(text), nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, embeddings.ErrEmptyInput
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}

func letterHistogram(text string) []float32 {
	v := make([]float32, MockDimensions)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	// keep non-alphabetic input away from the zero vector
	if allZero(v) {
		v[0] = 1
	}
	return v
}

func allZero(v []float32) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}
