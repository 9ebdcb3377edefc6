// Package vector provides the collection store used to persist name
// embeddings and run nearest-neighbour queries against them.
package vector

import "context"

// DefaultTopK is used when a query asks for zero or fewer results.
const DefaultTopK = 10

// Document represents a stored name with its embedding.
type Document struct {
	// ID is a unique identifier for the document within its collection.
	ID string

	// Text is the normalized name the embedding was computed from.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32
}

// Match represents a search result with its relevance score.
type Match struct {
	Document

	// Score is the relevance of the match (higher = more similar).
	Score float32
}

// Driver handles storage and retrieval of vector embeddings within a single
// named collection.
type Driver interface {
	// Add stores documents with their embeddings.
	// If a document with the same ID already exists, implementers should update
	// the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents to the given embedding,
	// ordered by descending Score.
	Query(ctx context.Context, embedding []float32, topK int) ([]Match, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)
}

// Store manages named collections in a vector database.
type Store interface {
	// Open returns a driver for the named collection, creating the collection
	// if it does not exist.
	Open(ctx context.Context, name string) (Driver, error)

	// DeleteCollection removes the named collection and all of its documents.
	// Returns ErrCollectionNotFound if no such collection exists.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}
