// Package chroma provides a Chroma vector database store implementation.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/papercomputeco/namematch/pkg/vector"
)

const collectionsPath = "/api/v2/tenants/default_tenant/databases/default_database/collections"

// Store implements vector.Store using Chroma's REST API.
type Store struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config holds configuration for the Chroma store.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000").
	URL string
}

// NewStore creates a new Chroma vector store.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("chroma URL is required")
	}

	return &Store{
		baseURL: c.URL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}, nil
}

// Open gets or creates the named collection using cosine distance.
func (s *Store) Open(ctx context.Context, name string) (vector.Driver, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	var col chromaCollection
	err := s.do(ctx, http.MethodPost, s.endpoint(), chromaCreateRequest{
		Name:        name,
		Metadata:    map[string]any{"hnsw:space": "cosine"},
		GetOrCreate: true,
	}, &col)
	if err != nil {
		return nil, fmt.Errorf("getting or creating collection %q: %w", name, err)
	}

	s.logger.Debug("opened chroma collection",
		"url", s.baseURL,
		"collection", name,
		"collection_id", col.ID,
	)

	return &collection{store: s, id: col.ID, name: name}, nil
}

// DeleteCollection deletes the named collection.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	err := s.do(ctx, http.MethodDelete, s.endpoint(name), nil, nil)
	if err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}

	s.logger.Debug("deleted chroma collection", "collection", name)
	return nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// endpoint returns the collections URL with each segment path-escaped, so a
// collection name containing "/" or "?" stays one segment.
func (s *Store) endpoint(segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(s.baseURL, "/"))
	b.WriteString(collectionsPath)
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

// statusError carries a non-2xx Chroma response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
// A 404 is mapped to vector.ErrCollectionNotFound.
func (s *Store) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return vector.ErrCollectionNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

var _ vector.Store = (*Store)(nil)
