// Package chatcmder provides the chat command: an interactive terminal UI
// for managing collections and searching names.
package chatcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/namematch/cmd/namematch/cmdutil"
	"github.com/papercomputeco/namematch/pkg/cliui"
	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/dotdir"
	"github.com/papercomputeco/namematch/pkg/logger"
	"github.com/papercomputeco/namematch/pkg/names"
)

const (
	logFile       = "chat.log"
	markdownWidth = 80
)

type chatCommander struct {
	collection string
	topK       int
	configDir  string

	logger *slog.Logger
}

const chatLongDesc string = `Start an interactive name matching session.

The top of the screen manages collections: type a collection name and press
ctrl+n to create or open it (empty collections are seeded with the built-in
sample names) or ctrl+x to delete it. The bottom is a chat-style search: type
a name and press enter to see the closest matches with their scores.

The transcript is kept in chat_history.json in the .namematch/ directory and
restored on the next run. Press ctrl+l to clear it. Logs are written to
chat.log in the same directory.

Examples:
  namematch chat
  namematch chat --collection people --top 10`

const chatShortDesc string = "Interactive name matching session"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ForCommand(cmd, cmdutil.MatcherFlagKeys(config.FlagCollection, config.FlagTopK))
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

			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.logger = logger.New(
				logger.WithDebug(cmdutil.Debug(cmd)),
				logger.WithJSON(true),
				logger.WithWriter(f),
				logger.WithComponent("chat"),
			)

			return cmder.run(cmd.Context(), cfg)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)
	config.AddIntFlag(cmd, config.Flags, config.FlagTopK, &cmder.topK)
	config.AddStoreFlags(cmd)

	return cmd
}

func (c *chatCommander) run(ctx context.Context, cfg *config.Config) error {
	ddm := dotdir.NewManager()

	history, err := ddm.LoadChatHistory(c.configDir)
	if err != nil {
		c.logger.Warn("loading chat history", "error", err)
		history = &dotdir.ChatHistory{}
	}

	sess := newSession(sessionConfig{
		NewMatcher: cmdutil.MatcherFactory(cfg, c.logger),
		Seed:       names.Sample(),
		TopK:       cfg.Matcher.TopK,
		History:    history.Messages,
		Store:      ddm,
		HistoryDir: c.configDir,
		Logger:     c.logger,
	})
	defer sess.close()

	// Pick the glamour style before the program owns the terminal.
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}

	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)

	md, err := cliui.NewMarkdownRenderer(style, markdownWidth)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}

	model := newChatModel(ctx, sess, cfg.Matcher.Collection, md.Render)

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
		bubbletea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running chat: %w", err)
	}

	return nil
}
