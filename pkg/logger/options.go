package logger

import (
	"io"
	"log/slog"
)

type format int

const (
	formatText format = iota
	formatPretty
	formatJSON
)

type config struct {
	level     slog.Level
	format    format
	source    bool
	writer    io.Writer
	component string
}

// Option adjusts a logger built by New. When options disagree on the output
// format the last one wins.
type Option func(*config)

// WithDebug drops the level to Debug and records the calling file:line, which
// is what --debug asks for on every command.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = slog.LevelDebug
		}
		c.source = debug
	}
}

// WithPretty writes colorized charmbracelet/log lines. Commands use it for
// the output a person reads on stderr.
func WithPretty(pretty bool) Option {
	return func(c *config) {
		if pretty {
			c.format = formatPretty
		}
	}
}

// WithJSON writes one JSON object per record, the format of chat.log and
// serve.log.
func WithJSON(json bool) Option {
	return func(c *config) {
		if json {
			c.format = formatJSON
		}
	}
}

// WithWriter sets the destination. A nil writer keeps os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.writer = w
		}
	}
}

// WithComponent binds a component attribute to every record so entries from
// the chat page and the server can be told apart once aggregated.
func WithComponent(name string) Option {
	return func(c *config) {
		c.component = name
	}
}
