package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"litreview-ai/internal/contextutil"
)

// Backend is the read/write primitive behind the store.
// Read returns an error wrapping fs.ErrNotExist when nothing has been written yet.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileBackend persists the store to a single file on disk.
type FileBackend struct {
	Path string
}

// NewFileBackend creates a FileBackend for path, creating its directory.
func NewFileBackend(path string) (*FileBackend, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &FileBackend{Path: path}, nil
}

// Read returns the file content.
func (b *FileBackend) Read() ([]byte, error) {
	return os.ReadFile(b.Path)
}

// Write replaces the file content atomically via a temp file and rename.
func (b *FileBackend) Write(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.Path), filepath.Base(b.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.Path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// MemoryBackend keeps the serialized store in memory.
type MemoryBackend struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

// NewMemoryBackend returns a MemoryBackend seeded with data (nil = absent).
func NewMemoryBackend(data []byte) *MemoryBackend {
	return &MemoryBackend{data: data}
}

func (b *MemoryBackend) Read() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, fs.ErrNotExist
	}
	return bytes.Clone(b.data), nil
}

func (b *MemoryBackend) Write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = bytes.Clone(data)
	b.writes++
	return nil
}

// Writes returns how many times the store was persisted.
func (b *MemoryBackend) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// Bytes returns the last persisted content.
func (b *MemoryBackend) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.data)
}

// load reads the store, synthesizing an empty one when the backend is empty
// or holds something that does not parse.
func load(ctx context.Context, backend Backend, now time.Time) (*Data, error) {
	logger := contextutil.LoggerFromContext(ctx)

	raw, err := backend.Read()
	if errors.Is(err, fs.ErrNotExist) {
		logger.DebugContext(ctx, "store file absent, starting empty")
		return NewData(now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		logger.WarnContext(ctx, "store file empty, recreating")
		return NewData(now), nil
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		logger.WarnContext(ctx, "store file corrupt, recreating", "error", err, "size", len(raw))
		return NewData(now), nil
	}
	return &d, nil
}

// Marshal serializes the store as indented JSON.
func Marshal(d *Data) ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal store: %w", err)
	}
	return append(out, '\n'), nil
}

func save(backend Backend, d *Data) error {
	out, err := Marshal(d)
	if err != nil {
		return err
	}
	if err := backend.Write(out); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}
