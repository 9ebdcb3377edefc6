// Package qdrant provides a Qdrant vector database store implementation
// over Qdrant's gRPC API.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/papercomputeco/namematch/pkg/vector"
)

const (
	// DefaultPort is Qdrant's gRPC port.
	DefaultPort = 6334

	textPayloadKey = "text"
)

// Config holds configuration for the Qdrant store.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool

	// Dimensions is the vector size used when creating collections.
	Dimensions uint
}

// ParseTarget builds a Config from a target such as "localhost",
// "localhost:6334" or "https://xyz.cloud.qdrant.io:6334?api_key=secret".
func ParseTarget(target string) (Config, error) {
	if target == "" {
		return Config{}, fmt.Errorf("qdrant target is required")
	}
	if !strings.Contains(target, "://") {
		target = "grpc://" + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return Config{}, fmt.Errorf("parsing qdrant target: %w", err)
	}

	c := Config{
		Host:   u.Hostname(),
		Port:   DefaultPort,
		APIKey: u.Query().Get("api_key"),
		UseTLS: u.Scheme == "https" || u.Scheme == "grpcs",
	}
	if c.Host == "" {
		return Config{}, fmt.Errorf("qdrant target %q has no host", target)
	}
	if p := u.Port(); p != "" {
		c.Port, err = strconv.Atoi(p)
		if err != nil {
			return Config{}, fmt.Errorf("invalid qdrant port %q: %w", p, err)
		}
	}
	return c, nil
}

// Store implements vector.Store using the Qdrant go client.
type Store struct {
	client     *qdrant.Client
	dimensions uint
	logger     *slog.Logger
}

// NewStore creates a Qdrant store. The gRPC connection is established lazily.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions cannot be 0, must be configured")
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   c.Host,
		Port:                   c.Port,
		APIKey:                 c.APIKey,
		UseTLS:                 c.UseTLS,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}

	logger.Debug("qdrant client created",
		"addr", net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		"tls", c.UseTLS,
	)

	return &Store{
		client:     client,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// Open creates the named collection with cosine distance if it is missing.
func (s *Store) Open(ctx context.Context, name string) (vector.Driver, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: checking collection %q: %v", vector.ErrConnection, name, err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(s.dimensions),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("creating collection %q: %w", name, err)
		}
		s.logger.Debug("created qdrant collection", "collection", name)
	}

	return &collection{client: s.client, name: name, logger: s.logger}, nil
}

// DeleteCollection deletes the named collection.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: checking collection %q: %v", vector.ErrConnection, name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}

	if err := s.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}

	s.logger.Debug("deleted qdrant collection", "collection", name)
	return nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// collection implements vector.Driver for one Qdrant collection.
type collection struct {
	client *qdrant.Client
	name   string
	logger *slog.Logger
}

// Add upserts documents as points. Document IDs must be UUIDs.
func (c *collection) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{textPayloadKey: doc.Text}),
		}
	}

	if _, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.name,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	c.logger.Debug("added documents to qdrant",
		"collection", c.name,
		"count", len(docs),
	)
	return nil
}

// Query returns the topK nearest points. Qdrant reports cosine similarity,
// which is already 1 - cosine distance.
func (c *collection) Query(ctx context.Context, embedding []float32, topK int) ([]vector.Match, error) {
	if topK <= 0 {
		topK = vector.DefaultTopK
	}

	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.name,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}

	results := make([]vector.Match, 0, len(points))
	for _, p := range points {
		results = append(results, vector.Match{
			Document: vector.Document{
				ID:   p.GetId().GetUuid(),
				Text: p.GetPayload()[textPayloadKey].GetStringValue(),
			},
			Score: p.GetScore(),
		})
	}

	c.logger.Debug("queried qdrant",
		"collection", c.name,
		"results", len(results),
	)
	return results, nil
}

// Count returns the exact number of points in the collection.
func (c *collection) Count(ctx context.Context) (int, error) {
	n, err := c.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: c.name,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return int(n), nil
}

var _ vector.Store = (*Store)(nil)
