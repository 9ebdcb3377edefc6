// Package matcher provides the NameMatcher facade: it embeds names through
// the configured embedding provider, stores them in a named collection of
// the configured vector store and retrieves the closest names for a query.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/namematch/pkg/embeddings/utils"
	"github.com/papercomputeco/namematch/pkg/vector"
	vectorutils "github.com/papercomputeco/namematch/pkg/vector/utils"
)

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "test"

// EmbedderFactory builds the embedding client from configuration.
type EmbedderFactory func(ctx context.Context, cfg config.EmbeddingConfig) (embeddings.Embedder, error)

// StoreFactory builds the vector store client from configuration.
type StoreFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (vector.Store, error)

// Options configures a Matcher.
type Options struct {
	// Collection is the collection name. Defaults to Config.Matcher.Collection,
	// then DefaultCollection.
	Collection string

	// Config holds provider settings and credentials. Required.
	Config *config.Config

	// Reporter receives user-facing messages. Optional.
	Reporter Reporter

	// Logger receives debug logs. Optional.
	Logger *slog.Logger

	// NewEmbedder and NewStore override client construction. Optional.
	NewEmbedder EmbedderFactory
	NewStore    StoreFactory
}

// Matcher is the NameMatcher facade over one named collection.
// It is not safe for concurrent use.
type Matcher struct {
	name     string
	cfg      *config.Config
	reporter Reporter
	logger   *slog.Logger

	newEmbedder EmbedderFactory
	newStore    StoreFactory

	embedder   embeddings.Embedder
	store      vector.Store
	collection *vector.Collection

	// err is the cause of the latest failed operation.
	err error
}

// New validates configuration and returns an uninitialized Matcher.
// A missing credential or storage location is ErrMissingConfig.
func New(opts Options) (*Matcher, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: no configuration provided", ErrMissingConfig)
	}

	if err := opts.Config.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingValue) {
			return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
		}
		return nil, err
	}

	m := &Matcher{
		name:        opts.Collection,
		cfg:         opts.Config,
		reporter:    opts.Reporter,
		logger:      opts.Logger,
		newEmbedder: opts.NewEmbedder,
		newStore:    opts.NewStore,
	}

	if m.name == "" {
		m.name = opts.Config.Matcher.Collection
	}
	if m.name == "" {
		m.name = DefaultCollection
	}
	if m.reporter == nil {
		m.reporter = discard{}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.newEmbedder == nil {
		m.newEmbedder = defaultEmbedder
	}
	if m.newStore == nil {
		m.newStore = OpenStore
	}
	m.logger = m.logger.With("collection", m.name)

	return m, nil
}

func defaultEmbedder(ctx context.Context, cfg config.EmbeddingConfig) (embeddings.Embedder, error) {
	return embeddingutils.NewEmbedder(ctx, &embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Provider,
		TargetURL:    cfg.Target,
		Model:        cfg.Model,
		APIKey:       cfg.APIKey,
		Dimensions:   cfg.Dimensions,
	})
}

// OpenStore builds the vector store client selected by cfg. It is the
// default StoreFactory.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (vector.Store, error) {
	return vectorutils.NewStore(ctx, &vectorutils.NewStoreOpts{
		ProviderType: cfg.VectorStore.Provider,
		Path:         cfg.VectorStore.Path,
		TargetURL:    cfg.VectorStore.Target,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
}

// sharedStore lends a store to a matcher without handing over ownership.
type sharedStore struct {
	vector.Store
}

func (sharedStore) Close() error { return nil }

// ShareStore returns a StoreFactory that gives every matcher the same open
// store. Closing a matcher leaves the store open; the caller closes it.
func ShareStore(store vector.Store) StoreFactory {
	return func(context.Context, *config.Config, *slog.Logger) (vector.Store, error) {
		return sharedStore{store}, nil
	}
}

// CollectionName returns the name of the collection this matcher manages.
func (m *Matcher) CollectionName() string {
	return m.name
}

// Initialized reports whether the collection is open and ready for use.
func (m *Matcher) Initialized() bool {
	return m.collection != nil
}

// Connect creates the vector store client without opening the collection.
func (m *Matcher) Connect(ctx context.Context) bool {
	if err := m.connectStore(ctx); err != nil {
		m.err = err
		m.errorf("Failed to connect to the vector store. Details: %v", err)
		return false
	}
	return true
}

// Initialize builds the embedding client and gets or creates the collection.
// On failure the matcher stays uninitialized.
func (m *Matcher) Initialize(ctx context.Context) bool {
	if err := m.initialize(ctx); err != nil {
		m.err = err
		m.errorf("Failed to initialize vector store for '%s'. Details: %v", m.name, err)
		return false
	}

	m.success("Vector store for collection '%s' initialized successfully.", m.name)
	return true
}

func (m *Matcher) initialize(ctx context.Context) error {
	if m.embedder == nil {
		e, err := m.newEmbedder(ctx, m.cfg.Embedding)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		m.embedder = e
	}

	if err := m.connectStore(ctx); err != nil {
		return err
	}

	driver, err := m.store.Open(ctx, m.name)
	if err != nil {
		return fmt.Errorf("opening collection: %w", err)
	}

	m.collection = vector.NewCollection(m.name, driver, m.embedder)
	return nil
}

func (m *Matcher) connectStore(ctx context.Context) error {
	if m.store != nil {
		return nil
	}

	s, err := m.newStore(ctx, m.cfg, m.logger)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	m.store = s
	return nil
}

// AddNames normalizes names and inserts them into the collection.
// It returns the number of names added.
func (m *Matcher) AddNames(ctx context.Context, names []string) int {
	if !m.Initialized() {
		m.warnf("Vector store not initialized. Cannot add names.")
		return 0
	}
	return m.add(ctx, PreprocessStrings(names))
}

// AddItems is AddNames for untyped input such as decoded JSON. Non-string
// elements are skipped with a warning; a nil list is ErrNotAList.
func (m *Matcher) AddItems(ctx context.Context, items []any) (int, error) {
	if !m.Initialized() {
		m.warnf("Vector store not initialized. Cannot add names.")
		return 0, nil
	}

	processed, err := preprocess(items, func(item any) {
		m.warnf("Skipping non-string element during preprocessing: %v", item)
	})
	if err != nil {
		return 0, err
	}
	return m.add(ctx, processed), nil
}

func (m *Matcher) add(ctx context.Context, processed []string) int {
	if _, err := m.collection.AddTexts(ctx, processed); err != nil {
		m.err = err
		m.errorf("Failed to add names to vector store. Details: %v", err)
		return 0
	}

	m.success("Added %d names to the vector store.", len(processed))
	return len(processed)
}

// FindSimilarNames returns up to k stored names closest to query, most
// relevant first. k <= 0 uses vector.DefaultTopK. Failures are reported and
// yield an empty result.
func (m *Matcher) FindSimilarNames(ctx context.Context, query string, k int) []vector.Match {
	if !m.Initialized() {
		m.warnf("Vector store not initialized. Cannot perform search.")
		return []vector.Match{}
	}
	if strings.TrimSpace(query) == "" {
		m.warnf("Query must be a non-empty string.")
		return []vector.Match{}
	}
	if k <= 0 {
		k = vector.DefaultTopK
	}

	matches, err := m.collection.SimilaritySearch(ctx, query, k)
	if err != nil {
		m.err = err
		m.errorf("Failed to perform similarity search for '%s'. Details: %v", query, err)
		return []vector.Match{}
	}

	m.infof("Found %d similar names for query: '%s'", len(matches), query)
	return matches
}

// DeleteCollection deletes the collection from the store and leaves the
// matcher uninitialized. The store client must exist (see Connect).
func (m *Matcher) DeleteCollection(ctx context.Context) bool {
	if m.store == nil {
		m.err = ErrNotInitialized
		m.errorf("Vector store client not initialized. Cannot delete collection.")
		return false
	}

	if err := m.store.DeleteCollection(ctx, m.name); err != nil {
		m.err = err
		m.errorf("Failed to delete collection '%s'. Details: %v", m.name, err)
		return false
	}

	m.collection = nil
	m.success("Collection '%s' successfully deleted.", m.name)
	return true
}

// GetCollection initializes the matcher and, when the collection holds no
// names yet, seeds it with seed.
func (m *Matcher) GetCollection(ctx context.Context, seed []string) bool {
	if !m.Initialize(ctx) {
		return false
	}

	m.infof("Attempted to get/create collection '%s'. If it existed, it's now active. If not, it was created.", m.name)

	if len(seed) == 0 {
		return true
	}

	n, err := m.collection.Count(ctx)
	if err != nil {
		m.err = err
		m.errorf("Error trying to get collection '%s'. Details: %v", m.name, err)
		return false
	}

	if n == 0 {
		m.AddNames(ctx, seed)
	} else {
		m.infof("Collection already contains data. Skipping adding sample names.")
	}
	return true
}

// Err returns the error behind the latest failed operation, or nil when
// none has failed. Failures are also reported; Err lets callers branch on
// the cause, such as vector.ErrCollectionNotFound.
func (m *Matcher) Err() error {
	return m.err
}

// Size returns the number of names stored in the collection.
func (m *Matcher) Size(ctx context.Context) (int, error) {
	if !m.Initialized() {
		return 0, fmt.Errorf("collection %q is not initialized", m.name)
	}
	return m.collection.Count(ctx)
}

// Close releases the embedding and vector store clients.
func (m *Matcher) Close() error {
	var errs []error
	if m.embedder != nil {
		errs = append(errs, m.embedder.Close())
		m.embedder = nil
	}
	if m.store != nil {
		errs = append(errs, m.store.Close())
		m.store = nil
	}
	m.collection = nil
	return errors.Join(errs...)
}

func (m *Matcher) success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.logger.Debug(msg)
	m.reporter.Success(msg)
}

func (m *Matcher) infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.logger.Debug(msg)
	m.reporter.Info(msg)
}

func (m *Matcher) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.logger.Debug(msg)
	m.reporter.Warn(msg)
}

func (m *Matcher) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.logger.Debug(msg)
	m.reporter.Error(msg)
}
