// Package addcmder provides the add command for inserting names into a
// collection.
package addcmder

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/namematch/cmd/namematch/cmdutil"
	"github.com/papercomputeco/namematch/pkg/cliui"
	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/matcher"
)

type addCommander struct {
	collection string
	file       string

	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

const addLongDesc string = `Add names to a collection.

Names are trimmed and lower-cased before they are embedded and stored.
They are taken from the arguments and --file together, or from standard
input with one name per line. A file ending in .json must hold a JSON array; elements
that are not strings are skipped with a warning.

Examples:
  namematch add Geetha Gita "New York"
  namematch add --collection people --file names.txt
  namematch add --file names.json Zorro
  cat names.txt | namematch add`

const addShortDesc string = "Add names to a collection"

func NewAddCmd() *cobra.Command {
	cmder := &addCommander{}

	cmd := &cobra.Command{
		Use:   "add [names...]",
		Short: addShortDesc,
		Long:  addLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ForCommand(cmd, cmdutil.MatcherFlagKeys(config.FlagCollection))
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
	cmd.Flags().StringVarP(&cmder.file, "file", "f", "", "Read names from a file (one per line, or a JSON array)")
	config.AddStoreFlags(cmd)

	return cmd
}

func (c *addCommander) run(ctx context.Context, cfg *config.Config, args []string) error {
	items, err := c.collect(args)
	if err != nil {
		return err
	}
	if items == nil {
		return matcher.ErrNotAList
	}
	if len(items) == 0 {
		return errors.New("no names to add")
	}

	m, err := cmdutil.MatcherFactory(cfg, c.logger)("", cliui.NewReporter(c.out))
	if err != nil {
		return fmt.Errorf("could not initialize name matcher: %w", err)
	}
	defer m.Close()

	if !m.Initialize(ctx) {
		return fmt.Errorf("could not open collection %q", m.CollectionName())
	}

	added, err := m.AddItems(ctx, items)
	if err != nil {
		return err
	}
	if added == 0 {
		return errors.New("no names were added")
	}

	return nil
}

// collect gathers the names to add: the arguments first, then the contents
// of --file, else standard input. A JSON file must hold an array.
func (c *addCommander) collect(args []string) ([]any, error) {
	switch {
	case c.file != "" && strings.EqualFold(filepath.Ext(c.file), ".json"):
		data, err := os.ReadFile(c.file)
		if err != nil {
			return nil, fmt.Errorf("reading names file: %w", err)
		}

		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("parsing names file: %w", err)
		}

		list, ok := decoded.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s holds a JSON %s", matcher.ErrNotAList, c.file, jsonKind(decoded))
		}
		return append(toItems(args), list...), nil

	case c.file != "":
		f, err := os.Open(c.file)
		if err != nil {
			return nil, fmt.Errorf("reading names file: %w", err)
		}
		defer f.Close()

		lines, err := readLines(f)
		if err != nil {
			return nil, err
		}
		return append(toItems(args), lines...), nil

	case len(args) > 0:
		return toItems(args), nil
	}

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errors.New("no names given: pass them as arguments, with --file, or on stdin")
	}
	return readLines(c.in)
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "null"
	}
}

func toItems(names []string) []any {
	items := make([]any, len(names))
	for i, n := range names {
		items[i] = n
	}
	return items
}

// readLines returns every non-blank line of r.
func readLines(r io.Reader) ([]any, error) {
	items := []any{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading names: %w", err)
	}

	return items, nil
}
