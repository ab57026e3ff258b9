package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository is the fallback key-value store: a single JSON object on
// disk. Used when the embedded database is unavailable so the tombstone
// ledger and sync cursor still survive restarts.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) load() (map[string][]byte, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var result map[string][]byte
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode metadata file: %w", err)
	}
	if result == nil {
		result = map[string][]byte{}
	}
	return result, nil
}

func (r *FileRepository) save(m map[string][]byte) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace metadata file: %w", err)
	}
	return nil
}

func (r *FileRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return nil, err
	}
	return m[key], nil
}

func (r *FileRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	m[key] = value
	return r.save(m)
}

func (r *FileRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	delete(m, key)
	return r.save(m)
}

func (r *FileRepository) List(_ context.Context) (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(map[string][]byte{})
}
