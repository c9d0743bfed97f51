// Package cli implements the meldgrid command-line interface.
//
// This package provides commands for editing grid layouts and mind maps
// stored as JSON files or in a document store, rendering them, and serving
// the HTTP API. The CLI is built using cobra and logs through the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - grid: Replay op scripts, view layouts interactively, render SVG
//   - tree: Create and edit mind maps, lay them out, render SVG or DOT
//   - store: List, fetch and delete stored documents
//   - serve: Run the HTTP API
//   - config: Print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The level,
// format and an optional rotating log file come from the logging section of
// the config file. Loggers are passed through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/meldgrid/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/meldgrid/pkg/config"
	"github.com/matzehuels/meldgrid/pkg/errors"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configureLogger builds the logger described by cfg. When cfg.File is set,
// output is duplicated into a size-rotated file and the returned closer must
// be closed on exit. verbose forces debug level.
func configureLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		l, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "logging.level")
		}
		level = l
	}
	if verbose {
		level = log.DebugLevel
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(w, rotator)
		closer = rotator
	}

	logger := newLogger(w, level)
	switch cfg.Format {
	case config.FormatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case config.FormatLogfmt:
		logger.SetFormatter(log.LogfmtFormatter)
	}
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered tree (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
