// Package namematchcmder
package namematchcmder

import (
	"github.com/spf13/cobra"

	addcmder "github.com/papercomputeco/namematch/cmd/namematch/add"
	chatcmder "github.com/papercomputeco/namematch/cmd/namematch/chat"
	configcmder "github.com/papercomputeco/namematch/cmd/namematch/config"
	deletecmder "github.com/papercomputeco/namematch/cmd/namematch/delete"
	initcmder "github.com/papercomputeco/namematch/cmd/namematch/init"
	matchcmder "github.com/papercomputeco/namematch/cmd/namematch/match"
	servecmder "github.com/papercomputeco/namematch/cmd/namematch/serve"
	versioncmder "github.com/papercomputeco/namematch/cmd/namematch/version"
)

const namematchLongDesc string = `Namematch finds similar names using embeddings and a vector database.

Names are embedded by a remote provider (Gemini, OpenAI or Ollama) and kept
in a vector store (embedded sqlite, Qdrant, Chroma or pgvector). Queries
return the closest stored names with a relevance score.

Get started using:
  namematch init --preset gemini   Create a local .namematch/ config
  namematch match Londun           Look up a name in the sample collection
  namematch chat                   Start an interactive session
  namematch serve                  Run the HTTP API and MCP server`

const namematchShortDesc string = "Namematch - similar name search"

func NewNamematchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "namematch",
		Short:        namematchShortDesc,
		Long:         namematchLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .namematch/ config directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(matchcmder.NewMatchCmd())
	cmd.AddCommand(addcmder.NewAddCmd())
	cmd.AddCommand(deletecmder.NewDeleteCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
