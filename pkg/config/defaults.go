package config

const (
	defaultEmbeddingProvider   = "gemini"
	defaultEmbeddingModel      = "text-embedding-004"
	defaultEmbeddingDimensions = 768

	defaultVectorProvider = "sqlite"

	defaultCollection = "test"
	defaultTopK       = 5

	defaultAPIListen = ":8090"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Matcher: MatcherConfig{
			Collection: defaultCollection,
			TopK:       defaultTopK,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
	}
}
