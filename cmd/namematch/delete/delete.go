// Package deletecmder provides the delete command for removing a collection
// and every name stored in it.
package deletecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/namematch/cmd/namematch/cmdutil"
	"github.com/papercomputeco/namematch/pkg/cliui"
	"github.com/papercomputeco/namematch/pkg/config"
)

type deleteCommander struct {
	collection string

	out    io.Writer
	logger *slog.Logger
}

const deleteLongDesc string = `Delete a collection from the vector store.

Every name stored in the collection is removed. Deleting a collection that
does not exist is an error.

Examples:
  namematch delete
  namematch delete --collection people`

const deleteShortDesc string = "Delete a collection"

func NewDeleteCmd() *cobra.Command {
	cmder := &deleteCommander{}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: deleteShortDesc,
		Long:  deleteLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ForCommand(cmd, cmdutil.MatcherFlagKeys(config.FlagCollection))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.out = cmd.OutOrStdout()
			cmder.logger = cmdutil.NewLogger(cmd)

			return cmder.run(cmd.Context(), cfg)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)
	config.AddStoreFlags(cmd)

	return cmd
}

func (c *deleteCommander) run(ctx context.Context, cfg *config.Config) error {
	m, err := cmdutil.MatcherFactory(cfg, c.logger)("", cliui.NewReporter(c.out))
	if err != nil {
		return fmt.Errorf("could not initialize name matcher: %w", err)
	}
	defer m.Close()

	if !m.Connect(ctx) || !m.DeleteCollection(ctx) {
		return fmt.Errorf("could not delete collection %q", m.CollectionName())
	}

	return nil
}
