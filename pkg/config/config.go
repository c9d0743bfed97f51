// Package config loads meldgrid settings from a TOML or YAML file.
//
// Settings are layered: built-in [Defaults], then the file (only the keys it
// sets), then MELDGRID_* environment variables. The result is validated
// before it is returned, so callers can hand the sections straight to the
// engines and the store.
//
//	[grid]
//	columns = 12
//	row_height = 50
//
//	[store]
//	backend = "sqlite"
//
//	[logging]
//	level = "debug"
//	file = "/var/log/meldgrid.log"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/grid"
	"github.com/matzehuels/meldgrid/pkg/mindmap"
	"github.com/matzehuels/meldgrid/pkg/store"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`

	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // text | json | logfmt

	// File, when set, also writes logs to a rotating file.
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
}

// Log formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Config is the complete meldgrid configuration.
type Config struct {
	Grid    grid.Config    `toml:"grid" yaml:"grid"`
	Tree    mindmap.Config `toml:"tree" yaml:"tree"`
	Store   store.Config   `toml:"store" yaml:"store"`
	Server  ServerConfig   `toml:"server" yaml:"server"`
	Logging LoggingConfig  `toml:"logging" yaml:"logging"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Grid:  grid.DefaultConfig(),
		Tree:  mindmap.DefaultConfig(),
		Store: store.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    4 << 20,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     FormatText,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Env var names used as overrides.
const (
	EnvGridColumns   = "MELDGRID_GRID_COLUMNS"
	EnvStoreBackend  = "MELDGRID_STORE_BACKEND"
	EnvStoreDir      = "MELDGRID_STORE_DIR"
	EnvStoreSQLite   = "MELDGRID_STORE_SQLITE"
	EnvStoreScope    = "MELDGRID_STORE_SCOPE"
	EnvRedisAddr     = "MELDGRID_REDIS_ADDR"
	EnvRedisPassword = "MELDGRID_REDIS_PASSWORD"
	EnvRedisDB       = "MELDGRID_REDIS_DB"
	EnvMongoURI      = "MELDGRID_MONGO_URI"
	EnvMongoDatabase = "MELDGRID_MONGO_DATABASE"
	EnvServerAddr    = "MELDGRID_SERVER_ADDR"
	EnvLogLevel      = "MELDGRID_LOG_LEVEL"
	EnvLogFormat     = "MELDGRID_LOG_FORMAT"
	EnvLogFile       = "MELDGRID_LOG_FILE"
)

// Path returns the per-user config file path,
// $XDG_CONFIG_HOME/meldgrid/config.toml or the platform equivalent.
func Path() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		var err error
		if base, err = os.UserConfigDir(); err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot resolve config directory")
		}
	}
	return filepath.Join(base, "meldgrid", "config.toml"), nil
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result.
//
// With an empty path the default [Path] is tried, and a missing file there
// is not an error. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, formatOf(path), &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML or YAML ("toml", "yaml") over the defaults, applies
// environment overrides and validates.
func Parse(data []byte, format string) (Config, error) {
	cfg := Defaults()
	if err := decode(data, format, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s config", format)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// decode merges data into cfg. Keys absent from data keep their current
// values; unknown keys are an error.
func decode(data []byte, format string, cfg *Config) error {
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return err
		}
		return nil
	case "toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
		return nil
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}
}

// Encode writes cfg as TOML or YAML.
func Encode(w io.Writer, cfg Config, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "toml", "":
		return toml.NewEncoder(w).Encode(cfg)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}
}

func applyEnvOverrides(cfg *Config) error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s must be an integer", name)
		}
		*dst = n
		return nil
	}

	if err := num(EnvGridColumns, &cfg.Grid.Columns); err != nil {
		return err
	}
	str(EnvStoreBackend, &cfg.Store.Backend)
	str(EnvStoreDir, &cfg.Store.Dir)
	str(EnvStoreSQLite, &cfg.Store.SQLite)
	str(EnvStoreScope, &cfg.Store.Scope)
	str(EnvRedisAddr, &cfg.Store.Redis.Addr)
	str(EnvRedisPassword, &cfg.Store.Redis.Password)
	if err := num(EnvRedisDB, &cfg.Store.Redis.DB); err != nil {
		return err
	}
	str(EnvMongoURI, &cfg.Store.Mongo.URI)
	str(EnvMongoDatabase, &cfg.Store.Mongo.Database)
	str(EnvServerAddr, &cfg.Server.Addr)
	str(EnvLogLevel, &cfg.Logging.Level)
	str(EnvLogFormat, &cfg.Logging.Format)
	str(EnvLogFile, &cfg.Logging.File)

	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "grid")
	}
	if err := c.Tree.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "tree")
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "store: unknown backend %q (want one of %s)",
			c.Store.Backend, strings.Join(store.Backends, ", "))
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server: addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server: max_body_bytes must be positive")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "logging: level")
	}
	switch c.Logging.Format {
	case FormatText, FormatJSON, FormatLogfmt:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "logging: unknown format %q", c.Logging.Format)
	}
	return nil
}
