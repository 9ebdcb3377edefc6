// Package matchcmder provides the match command: the classic one-shot
// name lookup against a seeded collection.
package matchcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/namematch/cmd/namematch/cmdutil"
	"github.com/papercomputeco/namematch/pkg/cliui"
	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/matcher"
	"github.com/papercomputeco/namematch/pkg/names"
	"github.com/papercomputeco/namematch/pkg/vector"
)

const queryPrompt = "enter user query : "

type matchCommander struct {
	collection string
	topK       int

	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

const matchLongDesc string = `Find the stored names most similar to a query.

Opens the collection (default "test"), adds the built-in sample names when it
is empty, then reads a query and prints the best match followed by the top
matches with their relevance scores. The query is taken from the arguments,
or read from standard input when none are given.

Examples:
  namematch match Londun
  namematch match --collection people --top 3 "Jhon"
  echo Mumbay | namematch match`

const matchShortDesc string = "Find the names most similar to a query"

func NewMatchCmd() *cobra.Command {
	cmder := &matchCommander{}

	cmd := &cobra.Command{
		Use:   "match [query]",
		Short: matchShortDesc,
		Long:  matchLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ForCommand(cmd, cmdutil.MatcherFlagKeys(config.FlagCollection, config.FlagTopK))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.logger = cmdutil.NewLogger(cmd)

			return cmder.run(cmd.Context(), cfg, args)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)
	config.AddIntFlag(cmd, config.Flags, config.FlagTopK, &cmder.topK)
	config.AddStoreFlags(cmd)

	return cmd
}

func (c *matchCommander) run(ctx context.Context, cfg *config.Config, args []string) error {
	newMatcher := cmdutil.MatcherFactory(cfg, c.logger)

	// Notices are held back while a spinner owns the line.
	rec := &matcher.Recorder{}
	m, err := newMatcher("", rec)
	if err != nil {
		return fmt.Errorf("could not initialize name matcher: %w", err)
	}
	defer m.Close()

	err = cliui.Step(c.out, fmt.Sprintf("Opening collection %q", m.CollectionName()), func() error {
		if !m.GetCollection(ctx, names.Sample()) {
			return fmt.Errorf("could not open collection %q", m.CollectionName())
		}
		return nil
	})
	c.flush(rec)
	if err != nil {
		return err
	}

	query, err := c.readQuery(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n--- Searching for: '%s' ---\n", query)

	matches := m.FindSimilarNames(ctx, query, cfg.Matcher.TopK)
	c.flush(rec)
	if len(matches) == 0 {
		fmt.Fprintln(c.out, "No matches found or an error occurred during search.")
		return nil
	}

	best := matches[0]
	fmt.Fprintf(c.out, "Best Match: %s %s\n", quotedName(best), score(best))
	fmt.Fprintln(c.out, "Other Similar Matches:")
	for i, match := range matches {
		fmt.Fprintf(c.out, "  %s %s %s\n",
			cliui.RankStyle.Render(fmt.Sprintf("%d.", i+1)),
			quotedName(match),
			score(match),
		)
	}

	return nil
}

// flush prints the recorded notices and clears them.
func (c *matchCommander) flush(rec *matcher.Recorder) {
	r := cliui.NewReporter(c.out)
	for _, n := range rec.Notices {
		switch n.Level {
		case matcher.LevelSuccess:
			r.Success(n.Message)
		case matcher.LevelWarn:
			r.Warn(n.Message)
		case matcher.LevelError:
			r.Error(n.Message)
		default:
			r.Info(n.Message)
		}
	}
	rec.Reset()
}

func quotedName(m vector.Match) string {
	return cliui.NameStyle.Render("'" + m.Text + "'")
}

func score(m vector.Match) string {
	return cliui.ScoreStyle.Render(fmt.Sprintf("(Score: %.4f)", m.Score))
}

// readQuery joins the positional arguments, or reads one line from the
// input. The prompt is only shown to an interactive terminal.
func (c *matchCommander) readQuery(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.out, queryPrompt)
	}

	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading query: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
