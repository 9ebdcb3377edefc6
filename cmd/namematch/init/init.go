// Package initcmder provides the init command for initializing a local
// .namematch directory in the current working directory.
package initcmder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/dotdir"
)

type initCommander struct {
	preset string
	out    io.Writer
}

const initLongDesc string = `Initialize a new .namematch/ directory in the current working directory.

Creates a local .namematch/ directory that takes precedence over the default
~/.namematch/ directory for configuration, the on-disk vector index, chat
history and logs. A config.toml is written with the vector index stored
inside the new directory.

Use --preset to start from a named embedding provider preset (gemini,
openai, ollama) or from a config.toml fetched over HTTP(S). An existing
config.toml is only replaced when --preset is given.

Examples:
  namematch init
  namematch init --preset ollama
  namematch init --preset https://example.com/namematch/config.toml`

const initShortDesc string = "Initialize a local .namematch/ directory"

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "",
		fmt.Sprintf("Provider preset (%s) or URL of a config.toml", strings.Join(config.ValidPresetNames(), ", ")))

	return cmd
}

func (c *initCommander) run(ctx context.Context) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dotdir.DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .namematch directory: %w", err)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return err
	}

	_, statErr := os.Stat(cfger.GetTarget())
	exists := statErr == nil
	if exists && c.preset == "" {
		fmt.Fprintf(c.out, "Already initialized: %s\n", dir)
		return nil
	}

	cfg, err := c.resolveConfig(ctx)
	if err != nil {
		return err
	}

	// an unset provider defaults to sqlite on load
	sqlite := cfg.VectorStore.Provider == "" || cfg.VectorStore.Provider == "sqlite"
	if sqlite && cfg.VectorStore.Path == "" {
		cfg.VectorStore.Path = dir
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Initialized .namematch directory: %s\n", dir)
	return nil
}

// resolveConfig returns the defaults, a named preset, or the config.toml
// served at the preset URL.
func (c *initCommander) resolveConfig(ctx context.Context) (*config.Config, error) {
	switch {
	case c.preset == "":
		return config.NewDefaultConfig(), nil

	case strings.HasPrefix(c.preset, "http://"), strings.HasPrefix(c.preset, "https://"):
		return fetchConfig(ctx, c.preset)

	default:
		return config.PresetConfig(c.preset)
	}
}

func fetchConfig(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
