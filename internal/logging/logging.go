// Package logging builds the slog logger shared by every command. Output is
// logfmt on stderr without timestamps; warnings are shown by default and
// --debug lowers the level to debug.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options configures the logger.
type Options struct {
	Level            slog.Level
	Writer           io.Writer
	DisableTimestamp bool
}

// Option configures logger behavior.
type Option func(*Options)

// WithDebug lowers the level to debug when enabled.
func WithDebug(enabled bool) Option {
	return func(o *Options) {
		if enabled {
			o.Level = slog.LevelDebug
		}
	}
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

// New returns a logger configured by opts.
func New(opts ...Option) *slog.Logger {
	options := Options{
		Level:            slog.LevelWarn,
		Writer:           os.Stderr,
		DisableTimestamp: true,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Writer == nil {
		options.Writer = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: options.Level}
	if options.DisableTimestamp {
		handlerOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
	}
	return slog.New(slog.NewTextHandler(options.Writer, handlerOpts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
