package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/namematch/pkg/dotdir"
)

// legacyEnv maps viper keys to the bare environment variable names the
// matcher has always read, in addition to the NAMEMATCH_ prefixed ones.
var legacyEnv = map[string][]string{
	"embedding.api_key": {"NAMEMATCH_EMBEDDING_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY"},
	"vector_store.path": {"NAMEMATCH_VECTOR_STORE_PATH", "CHROMA_DB_PATH"},
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the NAMEMATCH_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (NAMEMATCH_EMBEDDING_MODEL, GOOGLE_API_KEY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("NAMEMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, envs := range legacyEnv {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	return v, nil
}

// FromViper materializes a Config from the resolved viper values.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Embedding: EmbeddingConfig{
			Provider:   v.GetString("embedding.provider"),
			Target:     v.GetString("embedding.target"),
			Model:      v.GetString("embedding.model"),
			APIKey:     v.GetString("embedding.api_key"),
			Dimensions: v.GetUint("embedding.dimensions"),
		},
		VectorStore: VectorStoreConfig{
			Provider: v.GetString("vector_store.provider"),
			Path:     v.GetString("vector_store.path"),
			Target:   v.GetString("vector_store.target"),
		},
		Matcher: MatcherConfig{
			Collection: v.GetString("matcher.collection"),
			TopK:       v.GetInt("matcher.top_k"),
		},
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
	}
}

// ForCommand resolves the full precedence chain for cmd: it reads the
// --config-dir flag, initializes viper, binds the registered flags named by
// registryKeys and returns the resulting Config.
func ForCommand(cmd *cobra.Command, registryKeys []string) (*Config, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := InitViper(configDir)
	if err != nil {
		return nil, err
	}

	BindRegisteredFlags(v, cmd, Flags, registryKeys)

	return FromViper(v), nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.api_key", d.Embedding.APIKey)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	// Vector store
	v.SetDefault("vector_store.provider", d.VectorStore.Provider)
	v.SetDefault("vector_store.path", d.VectorStore.Path)
	v.SetDefault("vector_store.target", d.VectorStore.Target)

	// Matcher
	v.SetDefault("matcher.collection", d.Matcher.Collection)
	v.SetDefault("matcher.top_k", d.Matcher.TopK)

	// API
	v.SetDefault("api.listen", d.API.Listen)
}
