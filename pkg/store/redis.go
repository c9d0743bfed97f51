package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

// RedisStore keeps each document as a Redis string.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, classifyRedis(err))
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get reads the document under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classifyRedis(err)
	}
	return data, true, nil
}

// Set writes the document under key without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	return classifyRedis(s.client.Set(ctx, key, data, 0).Err())
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return classifyRedis(s.client.Del(ctx, key).Err())
}

// List scans the keyspace for keys starting with prefix.
func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, globEscape(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, classifyRedis(err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// classifyRedis marks connection failures as retryable.
func classifyRedis(err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.EOF) || errors.Is(err, redis.ErrClosed) {
		return Retryable(err)
	}
	return err
}

// globEscape quotes the characters Redis MATCH patterns treat specially.
func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
