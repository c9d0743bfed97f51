package store

import (
	"context"
	"time"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendNull   = "null"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Backends lists every backend name.
var Backends = []string{BackendFile, BackendNull, BackendRedis, BackendMongo, BackendSQLite}

// Config selects and configures a backend.
type Config struct {
	Backend string      `toml:"backend" yaml:"backend"`
	Dir     string      `toml:"dir" yaml:"dir"`
	SQLite  string      `toml:"sqlite" yaml:"sqlite"`
	Redis   RedisConfig `toml:"redis" yaml:"redis"`
	Mongo   MongoConfig `toml:"mongo" yaml:"mongo"`

	// Scope, when set, prefixes every key.
	Scope string `toml:"scope" yaml:"scope"`
}

// DefaultConfig uses the file backend in DefaultDir.
func DefaultConfig() Config {
	return Config{Backend: BackendFile}
}

// Open builds the configured backend. The returned store reports every
// operation to the observability store hooks. Connecting to a network
// backend is retried with backoff.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendFile, "":
		cfg.Backend = BackendFile
		s, err = NewFileStore(cfg.Dir)
	case BackendNull:
		s = NewNullStore()
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, cfg.SQLite)
	case BackendRedis:
		err = RetryWithBackoff(ctx, func() error {
			var e error
			s, e = NewRedisStore(ctx, cfg.Redis)
			return e
		})
	case BackendMongo:
		err = RetryWithBackoff(ctx, func() error {
			var e error
			s, e = NewMongoStore(ctx, cfg.Mongo)
			return e
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %v)", cfg.Backend, Backends)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open %s store", cfg.Backend)
	}
	return Instrument(s, cfg.Backend), nil
}

// Instrument wraps s so that loads and saves reach observability.Store().
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, found, err := s.Store.Get(ctx, key)
	observability.Store().OnLoad(ctx, s.backend, key, found, time.Since(start), err)
	return data, found, err
}

func (s *instrumented) Set(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.Store.Set(ctx, key, data)
	observability.Store().OnSave(ctx, s.backend, key, len(data), time.Since(start), err)
	return err
}

// Unwrap returns the underlying backend.
func (s *instrumented) Unwrap() Store { return s.Store }

// Backend returns the backend name for an opened store, or "" if s was not
// built by Open or Instrument.
func Backend(s Store) string {
	if i, ok := s.(*instrumented); ok {
		return i.backend
	}
	return ""
}

// KeyerFor returns the keyer for cfg, scoped when cfg.Scope is set.
func KeyerFor(cfg Config) Keyer {
	if cfg.Scope == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(nil, cfg.Scope)
}
