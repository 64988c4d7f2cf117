// Package datastore is a small JSON-file key/value store: values live in memory,
// are flushed to disk periodically and on Close, and every write is atomic with
// rotating backups.
package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrClosed      = errors.New("datastore is closed")
	ErrMemoryLimit = errors.New("datastore memory limit exceeded")
)

// Config holds configuration options for the DataStore.
type Config struct {
	FilePath         string
	AutoSaveInterval time.Duration
	MaxMemorySize    int64 // bytes, 0 = unlimited
	BackupCount      int   // backup files to keep
	Logger           zerolog.Logger
}

// DefaultConfig returns a default configuration.
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		MaxMemorySize:    100 * 1024 * 1024,
		BackupCount:      3,
		Logger:           zerolog.Nop(),
	}
}

type DataStore struct {
	mu           sync.RWMutex
	data         map[string]json.RawMessage
	file         string
	config       *Config
	memorySize   int64
	lastChecksum string
	closed       bool
	saveMu       sync.Mutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a DataStore with the default configuration.
func New(filePath string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig creates a DataStore, loading filePath when it exists.
func NewWithConfig(config *Config) (*DataStore, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if config.FilePath == "" {
		return nil, errors.New("file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	ds := &DataStore{
		data:   make(map[string]json.RawMessage),
		file:   config.FilePath,
		config: config,
	}

	switch _, err := os.Stat(config.FilePath); {
	case errors.Is(err, os.ErrNotExist):
		if err := ds.writeFileAtomic([]byte("{}")); err != nil {
			return nil, fmt.Errorf("create empty JSON file: %w", err)
		}
	case err == nil:
		if err := ds.loadFromFile(); err != nil {
			return nil, fmt.Errorf("load data from file: %w", err)
		}
	default:
		return nil, fmt.Errorf("check file existence: %w", err)
	}

	if config.AutoSaveInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		ds.cancel = cancel
		ds.wg.Add(1)
		go ds.autoSave(ctx)
	}

	return ds, nil
}

// Put stores value under key as JSON.
func (ds *DataStore) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return ErrClosed
	}

	newMemorySize := ds.memorySize - int64(len(ds.data[key])) + int64(len(raw))
	if ds.config.MaxMemorySize > 0 && newMemorySize > ds.config.MaxMemorySize {
		return ErrMemoryLimit
	}
	ds.memorySize = newMemorySize
	ds.data[key] = raw
	return nil
}

// Get decodes the value stored under key into dst. It reports false when the
// key does not exist.
func (ds *DataStore) Get(key string, dst any) (bool, error) {
	ds.mu.RLock()
	raw, ok := ds.data[key]
	closed := ds.closed
	ds.mu.RUnlock()

	if closed {
		return false, ErrClosed
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return true, nil
}

// Delete removes key. Deleting a missing key is a no-op.
func (ds *DataStore) Delete(key string) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return ErrClosed
	}
	if raw, ok := ds.data[key]; ok {
		ds.memorySize -= int64(len(raw))
		delete(ds.data, key)
	}
	return nil
}

// Keys returns the sorted keys starting with prefix.
func (ds *DataStore) Keys(prefix string) []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	var keys []string
	for k := range ds.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// SaveToFile forces an immediate save to disk.
func (ds *DataStore) SaveToFile() error {
	ds.mu.RLock()
	closed := ds.closed
	ds.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	return ds.saveToFile()
}

// Close stops the autosave loop and writes the final state.
func (ds *DataStore) Close() error {
	ds.mu.Lock()
	if ds.closed {
		ds.mu.Unlock()
		return nil
	}
	ds.closed = true
	ds.mu.Unlock()

	if ds.cancel != nil {
		ds.cancel()
	}
	ds.wg.Wait()

	return ds.saveToFile()
}

// saveToFile writes the data atomically when it changed since the last save.
func (ds *DataStore) saveToFile() error {
	ds.saveMu.Lock()
	defer ds.saveMu.Unlock()

	ds.mu.RLock()
	data, err := json.MarshalIndent(ds.data, "", "  ")
	ds.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	checksum := checksumOf(data)
	if checksum == ds.lastChecksum {
		return nil
	}

	if ds.config.BackupCount > 0 {
		if err := ds.createBackup(); err != nil {
			ds.config.Logger.Warn().Err(err).Msg("Failed to create backup")
		}
	}

	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}
	if err := ds.verifyFile(checksum); err != nil {
		return fmt.Errorf("file verification failed: %w", err)
	}

	ds.lastChecksum = checksum
	return nil
}

func (ds *DataStore) loadFromFile() error {
	data, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	loaded := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.data = loaded
	ds.memorySize = 0
	for _, raw := range loaded {
		ds.memorySize += int64(len(raw))
	}
	ds.lastChecksum = checksumOf(data)
	return nil
}

// writeFileAtomic writes to a temporary file, syncs it and renames it over the target.
func (ds *DataStore) writeFileAtomic(data []byte) error {
	tmpFile := ds.file + ".tmp"

	f, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("sync temp file: %w", err)
	}
	f.Close()

	if err := os.Rename(tmpFile, ds.file); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (ds *DataStore) verifyFile(checksum string) error {
	actual, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("read file for verification: %w", err)
	}
	if checksumOf(actual) != checksum {
		return errors.New("file checksum mismatch")
	}
	return nil
}

// createBackup copies the current file to a timestamped backup.
func (ds *DataStore) createBackup() error {
	src, err := os.Open(ds.file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	backupFile := fmt.Sprintf("%s.backup.%s", ds.file, time.Now().Format("20060102_150405.000000000"))
	dst, err := os.Create(backupFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	ds.cleanupOldBackups()
	return nil
}

// cleanupOldBackups removes the oldest backups beyond BackupCount.
func (ds *DataStore) cleanupOldBackups() {
	matches, err := filepath.Glob(ds.file + ".backup.*")
	if err != nil || len(matches) <= ds.config.BackupCount {
		return
	}

	// Timestamps in the names sort chronologically.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-ds.config.BackupCount] {
		os.Remove(path)
	}
}

func (ds *DataStore) autoSave(ctx context.Context) {
	defer ds.wg.Done()

	ticker := time.NewTicker(ds.config.AutoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ds.saveToFile(); err != nil {
				ds.config.Logger.Error().Err(err).Msg("Auto-save failed")
			}
		}
	}
}

func checksumOf(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
