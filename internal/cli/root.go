package cli

import (
	"context"
	"os"

	"github.com/matzehuels/meldgrid/pkg/buildinfo"
)

// SetVersion overrides the build information displayed by --version.
// Empty values keep what was injected via ldflags.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2025-12-20T14:32:01Z")
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the meldgrid CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: level from the config file (info), written to stderr
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	defer c.Close()
	return c.RootCommand().ExecuteContext(ctx)
}
