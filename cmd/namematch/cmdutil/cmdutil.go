// Package cmdutil holds helpers shared by the namematch commands.
package cmdutil

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/namematch/api/search"
	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/dotdir"
	"github.com/papercomputeco/namematch/pkg/logger"
	"github.com/papercomputeco/namematch/pkg/matcher"
	"github.com/papercomputeco/namematch/pkg/vector"
)

// MatcherFlagKeys returns the flag registry keys bound by commands that open
// a matcher: extra followed by the provider selection flags.
func MatcherFlagKeys(extra ...string) []string {
	keys := make([]string, 0, len(extra)+len(config.StoreFlagKeys))
	keys = append(keys, extra...)
	return append(keys, config.StoreFlagKeys...)
}

// Debug reports whether the persistent --debug flag is set.
func Debug(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}

// NewLogger returns the human-friendly CLI logger writing to the command's
// stderr.
func NewLogger(cmd *cobra.Command) *slog.Logger {
	return logger.New(
		logger.WithDebug(Debug(cmd)),
		logger.WithPretty(true),
		logger.WithWriter(cmd.ErrOrStderr()),
	)
}

// OpenLogFile opens name inside the resolved .namematch/ directory for
// appending.
func OpenLogFile(cmd *cobra.Command, name string) (*os.File, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	path, err := dotdir.NewManager().File(configDir, name)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// MatcherFactory returns a factory that builds matchers from cfg. An empty
// collection name selects cfg.Matcher.Collection.
func MatcherFactory(cfg *config.Config, log *slog.Logger) search.MatcherFactory {
	return matcherFactory(cfg, log, nil)
}

// SharedMatcherFactory is MatcherFactory for long-running servers: every
// matcher uses store, which stays open when the matchers are closed.
func SharedMatcherFactory(cfg *config.Config, log *slog.Logger, store vector.Store) search.MatcherFactory {
	return matcherFactory(cfg, log, matcher.ShareStore(store))
}

func matcherFactory(cfg *config.Config, log *slog.Logger, newStore matcher.StoreFactory) search.MatcherFactory {
	return func(collection string, reporter matcher.Reporter) (*matcher.Matcher, error) {
		return matcher.New(matcher.Options{
			Collection: collection,
			Config:     cfg,
			Reporter:   reporter,
			Logger:     log,
			NewStore:   newStore,
		})
	}
}
