// Package configcmder provides the config command for managing persistent
// namematch configuration stored in the .namematch/ directory.
package configcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/namematch/pkg/cliui"
	"github.com/papercomputeco/namematch/pkg/config"
)

const configLongDesc string = `Manage persistent namematch configuration.

Configuration is stored as config.toml in the .namematch/ directory and
provides default values for command flags. CLI flags and environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  embedding.provider, embedding.target, embedding.model,
  embedding.api_key, embedding.dimensions,
  vector_store.provider, vector_store.path, vector_store.target,
  matcher.collection, matcher.top_k,
  api.listen

Use subcommands to get, set, or list configuration values:
  namematch config set <key> <value>    Set a configuration value
  namematch config get <key>            Get a configuration value
  namematch config list                 List all configuration values

Examples:
  namematch config set embedding.provider ollama
  namematch config set vector_store.path ~/.namematch
  namematch config get matcher.collection
  namematch config list`

const configShortDesc string = "Manage persistent namematch configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// displayValue masks credentials.
func displayValue(key, value string) string {
	if config.IsSecretConfigKey(key) {
		return cliui.MaskSecret(value)
	}
	return value
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
