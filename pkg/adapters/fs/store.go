// Package fs implements core.KeyValue on the local filesystem.
//
// Every key is a single file, {Dir}/{key}{Ext}. Writes are atomic and the
// directory can be watched for changes made by other processes.
package fs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// DefaultExt is used when Config.Ext is empty.
const DefaultExt = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Dir          string
	Ext          string // file extension including the dot, e.g. ".json" or ".yaml"
	ReadOnly     bool
	MustExist    bool
	Debounce     time.Duration // watch debounce window, 50ms when zero
	Logger       *slog.Logger
	ErrorHandler func(error) // receives watcher failures when set
}

// Store is a file-per-key store.
type Store struct {
	config Config

	mu            sync.RWMutex
	written       map[string][sha256.Size]byte // content hash of our own last write per key
	deleted       map[string]bool
	watchers      int
	lastWrite     *time.Time
	writeFailures int
}

// NewStore creates a filesystem-backed store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.Ext == "" {
		config.Ext = DefaultExt
	}
	if !strings.HasPrefix(config.Ext, ".") {
		config.Ext = "." + config.Ext
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Store{
		config:  config,
		written: make(map[string][sha256.Size]byte),
		deleted: make(map[string]bool),
	}
}

// Initialize creates the store directory, or checks it exists when MustExist is set.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.config.Dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("cache directory does not exist: %s", s.config.Dir)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("cache path is not a directory: %s", s.config.Dir)
		}
		return nil
	}
	if s.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(s.config.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.config.Dir }

// Ext returns the file extension of stored keys.
func (s *Store) Ext() string { return s.config.Ext }

// Path returns the file that holds key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.config.Dir, key+s.config.Ext)
}

// Get implements core.KeyValue.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set implements core.KeyValue.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Record the hash first so the watcher never sees the write as foreign.
	s.mu.Lock()
	s.written[key] = sha256.Sum256(value)
	delete(s.deleted, key)
	s.mu.Unlock()

	if err := writeFileAtomic(s.Path(key), value, 0644); err != nil {
		s.recordWrite(false)
		s.config.Logger.Warn("cache write failed", "key", key, "error", err)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.recordWrite(true)
	s.config.Logger.Debug("cache written", "key", key, "bytes", len(value))
	return nil
}

// Delete implements core.KeyValue.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.written, key)
	s.deleted[key] = true
	s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list cache directory: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if key, ok := s.keyOf(e.Name()); ok && !e.IsDir() {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// keyOf maps a file name inside Dir back to its key.
func (s *Store) keyOf(name string) (string, bool) {
	name = filepath.Base(name)
	if strings.HasPrefix(name, TempFilePrefix) || !strings.HasSuffix(name, s.config.Ext) {
		return "", false
	}
	key := strings.TrimSuffix(name, s.config.Ext)
	return key, key != ""
}

// isOwnChange reports whether the current state of key is the result of
// this store's last Set or Delete.
func (s *Store) isOwnChange(key string) bool {
	data, err := os.ReadFile(s.Path(key))

	s.mu.RLock()
	defer s.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return s.deleted[key]
	}
	if err != nil {
		return false
	}
	sum, ok := s.written[key]
	return ok && sum == sha256.Sum256(data)
}

func (s *Store) recordWrite(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.writeFailures++
		return
	}
	now := time.Now()
	s.lastWrite = &now
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

var _ core.KeyValue = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
