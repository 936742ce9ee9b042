package cart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/angelmondragon/utmart-backend/pkg/redis"
)

// Storage is a string key-value store with browser local-storage semantics.
// GetItem reports ok=false for a missing key.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}

// MemoryStorage keeps entries in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: map[string]string{}}
}

func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// FileStorage writes one JSON file per key under dir/namespace.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the namespace directory if needed.
func NewFileStorage(baseDir, namespace string) (*FileStorage, error) {
	name := safeName(namespace)
	if name == "" {
		return nil, fmt.Errorf("storage namespace is required")
	}
	dir := filepath.Join(baseDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// SetItem replaces the file atomically through a temp file and rename.
func (f *FileStorage) SetItem(_ context.Context, key, value string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *FileStorage) path(key string) (string, error) {
	name := safeName(key)
	if name == "" {
		return "", fmt.Errorf("storage key is required")
	}
	return filepath.Join(f.dir, name+".json"), nil
}

func safeName(v string) string {
	return unsafeNameChars.ReplaceAllString(v, "_")
}

type kvClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	StorageKey(namespace, item string) string
}

// RedisStorage keeps a session's entries on the shared Redis client. Writes
// are last-writer-wins.
type RedisStorage struct {
	client    kvClient
	namespace string
	ttl       time.Duration
}

// NewRedisStorage scopes entries to namespace. A positive ttl is refreshed on
// every write.
func NewRedisStorage(client kvClient, namespace string, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if namespace == "" {
		return nil, fmt.Errorf("storage namespace is required")
	}
	return &RedisStorage{client: client, namespace: namespace, ttl: ttl}, nil
}

func (r *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.client.StorageKey(r.namespace, key))
	if redis.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.StorageKey(r.namespace, key), value, r.ttl)
}
