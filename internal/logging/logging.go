// Package logging configures the process-wide slog logger for the CLI and
// embedding hosts.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Option configures Setup.
type Option func(*config)

type config struct {
	level     slog.Level
	addSource bool
	out       io.Writer
}

func defaultConfig() config {
	return config{
		level: slog.LevelInfo,
		out:   os.Stderr,
	}
}

// WithLevel sets the minimum level to report.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) Option {
	return func(c *config) {
		c.addSource = enabled
	}
}

// WithOutput redirects log output, stderr by default.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.out = w
	}
}

// Setup installs a text handler as the default slog logger and returns it.
func Setup(opts ...Option) *slog.Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	handler := slog.NewTextHandler(cfg.out, &slog.HandlerOptions{
		Level:     cfg.level,
		AddSource: cfg.addSource,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
