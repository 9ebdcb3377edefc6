// Package servecmder provides the serve command for running the namematch
// HTTP API and MCP server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/namematch/api"
	"github.com/papercomputeco/namematch/cmd/namematch/cmdutil"
	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/logger"
	"github.com/papercomputeco/namematch/pkg/matcher"
	"github.com/papercomputeco/namematch/pkg/names"
)

const logFile = "serve.log"

type serveCommander struct {
	listen string
	debug  bool
	logger *slog.Logger
}

const serveLongDesc string = `Run the namematch HTTP server.

Serves a REST API for managing collections and searching names, and an MCP
server at /mcp exposing the find_similar_names tool to agents.

Routes:
  GET    /ping
  PUT    /v1/collections/:name            Create or open a collection, seeding sample names
  DELETE /v1/collections/:name            Delete a collection
  POST   /v1/collections/:name/names      Add names: {"names": [...]}
  GET    /v1/collections/:name/search     Search: ?query=<name>&top_k=<n>
  POST   /mcp                             MCP streamable HTTP endpoint

Logs are written to the terminal and as JSON to serve.log in the .namematch/
directory.

Examples:
  namematch serve
  namematch serve --listen :9000 --vector-store-provider qdrant --vector-store-target grpc://localhost:6334`

const serveShortDesc string = "Run the namematch HTTP server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ForCommand(cmd, cmdutil.MatcherFlagKeys(config.FlagListen))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			f, err := cmdutil.OpenLogFile(cmd, logFile)
			if err != nil {
				return err
			}
			defer f.Close()

			cmder.debug = cmdutil.Debug(cmd)
			cmder.logger = logger.Multi(
				logger.New(logger.WithDebug(cmder.debug), logger.WithPretty(true), logger.WithWriter(cmd.OutOrStdout())),
				logger.New(logger.WithDebug(cmder.debug), logger.WithJSON(true), logger.WithWriter(f), logger.WithComponent("serve")),
			)

			return cmder.run(cmd.Context(), cfg)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStoreFlags(cmd)

	return cmd
}

func (c *serveCommander) run(ctx context.Context, cfg *config.Config) error {
	// Requests are served concurrently; they share one store client.
	store, err := matcher.OpenStore(ctx, cfg, c.logger)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	defer store.Close()

	server, err := api.NewServer(api.Config{
		ListenAddr: cfg.API.Listen,
		NewMatcher: cmdutil.SharedMatcherFactory(cfg, c.logger, store),
		Seed:       names.Sample(),
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	c.logger.Info("using providers",
		"embedding", cfg.Embedding.Provider,
		"model", cfg.Embedding.Model,
		"vector_store", cfg.VectorStore.Provider,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}
