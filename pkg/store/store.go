// Package store persists grid layouts and mind maps as opaque JSON documents.
//
// A [Store] maps string keys to byte slices. Keys are produced by a [Keyer]
// so that every backend sees the same layout:
//
//	grid:<name>   a grid snapshot
//	tree:<name>   a mind map document
//
// # Backends
//
//   - [FileStore]: sharded JSON files, the default for the CLI
//   - [NullStore]: stores nothing
//   - [RedisStore]: one string value per key
//   - [MongoStore]: one BSON document per key
//   - [SQLiteStore]: one row per key in an embedded database
//
// [Open] builds the backend named in a [Config] and wraps it with
// observability hooks.
//
// All backends are safe for concurrent use. Documents are not interpreted;
// validation happens in the schema package before they are written.
package store

import (
	"context"
	"strings"
)

// Store is a key/value document store.
type Store interface {
	// Get returns the document under key. found is false, with a nil
	// error, when the key does not exist.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Set creates or replaces the document under key.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Key prefixes for the document kinds.
const (
	GridPrefix = "grid:"
	TreePrefix = "tree:"
)

// Keyer produces store keys for named documents.
type Keyer interface {
	GridKey(name string) string
	TreeKey(name string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GridKey returns the key of the grid called name.
func (DefaultKeyer) GridKey(name string) string { return GridPrefix + name }

// TreeKey returns the key of the mind map called name.
func (DefaultKeyer) TreeKey(name string) string { return TreePrefix + name }

// ScopedKeyer prefixes every key, for example to give each tenant its own
// namespace in a shared backend:
//
//	k := NewScopedKeyer(nil, "team:ops:")
//	k.GridKey("overview") // "team:ops:grid:overview"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GridKey returns the prefixed grid key.
func (k *ScopedKeyer) GridKey(name string) string { return k.prefix + k.inner.GridKey(name) }

// TreeKey returns the prefixed mind map key.
func (k *ScopedKeyer) TreeKey(name string) string { return k.prefix + k.inner.TreeKey(name) }

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// NameFromKey strips everything up to and including kindPrefix from key.
// It returns false when key does not contain kindPrefix.
func NameFromKey(key, kindPrefix string) (string, bool) {
	i := strings.Index(key, kindPrefix)
	if i < 0 {
		return "", false
	}
	return key[i+len(kindPrefix):], true
}
