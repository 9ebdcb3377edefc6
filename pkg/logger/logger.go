// Package logger builds the slog loggers used across namematch: pretty
// terminal output for the CLI and JSON lines for the chat and server log
// files.
package logger

import (
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// New builds a logger from opts. Without options it writes plain slog text at
// Info level to os.Stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	l := slog.New(c.handler())
	if c.component != "" {
		l = l.With("component", c.component)
	}
	return l
}

func (c *config) handler() slog.Handler {
	switch c.format {
	case formatPretty:
		return charmlog.NewWithOptions(c.writer, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			ReportCaller:    c.source,
		})

	case formatJSON:
		return slog.NewJSONHandler(c.writer, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		})

	default:
		return slog.NewTextHandler(c.writer, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		})
	}
}

// Nop returns a logger that drops every record. Tests hand it to stores and
// matchers.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
