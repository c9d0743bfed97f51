package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meldgrid/pkg/buildinfo"
	"github.com/matzehuels/meldgrid/pkg/config"
	"github.com/matzehuels/meldgrid/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "meldgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	logOut     io.Writer
	logCloser  io.Closer
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
// The configuration is replaced by the config file when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Defaults(),
		logOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logCloser == nil {
		return nil
	}
	err := c.logCloser.Close()
	c.logCloser = nil
	return err
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Meldgrid lays out dashboard grids and mind maps",
		Long: `Meldgrid is a layout engine for two kinds of documents: grid dashboards,
where rectangular items never overlap, and mind maps, laid out as
left-to-right trees. Documents live in JSON files or in a document store.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/meldgrid/config.toml)")

	// Register all subcommands
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and rebuilds the logger from it before any
// command runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	return c.apply(cmd, cfg)
}

// setupDefaults is setup for commands that manage the config file itself
// and so must not fail when it is missing or broken.
func (c *CLI) setupDefaults(cmd *cobra.Command, args []string) error {
	return c.apply(cmd, config.Defaults())
}

func (c *CLI) apply(cmd *cobra.Command, cfg config.Config) error {
	c.Config = cfg

	logger, closer, err := configureLogger(c.logOut, cfg.Logging, c.verbose)
	if err != nil {
		return err
	}
	c.Close()
	c.Logger, c.logCloser = logger, closer
	c.Logger.Debug("config loaded", "path", c.configPath, "store", cfg.Store.Backend)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Store Access
// =============================================================================

// openStore connects to the configured backend. Network backends show a
// spinner while the connection is retried.
func (c *CLI) openStore(ctx context.Context) (store.Store, store.Keyer, error) {
	cfg := c.Config.Store
	var spinner *Spinner
	switch cfg.Backend {
	case store.BackendRedis, store.BackendMongo:
		spinner = newSpinnerWithContext(ctx, "Connecting to "+cfg.Backend+"...")
		spinner.Start()
	}
	s, err := store.Open(ctx, cfg)
	switch {
	case spinner == nil:
	case err != nil:
		spinner.StopWithError("Could not reach " + cfg.Backend)
	default:
		spinner.Stop()
	}
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("store opened", "backend", store.Backend(s))
	return s, store.KeyerFor(cfg), nil
}

// withStore opens the store, runs fn and closes the store again.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store, store.Keyer) error) error {
	s, keys, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s, keys)
}
