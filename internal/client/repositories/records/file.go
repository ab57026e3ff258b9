package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/common"
)

// FileRepository is the degraded fallback store: the whole record list
// serialized as one JSON file. It exists so the client keeps working when
// the embedded database cannot be opened. Writes go through a temp file and
// rename so a crash mid-write never leaves a truncated list.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository returns a FileRepository persisting to the given path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) load() ([]*models.Record, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var result []*models.Record
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode record file: %w", err)
	}
	return result, nil
}

func (r *FileRepository) save(recs []*models.Record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create record dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace record file: %w", err)
	}
	return nil
}

func (r *FileRepository) GetAll(_ context.Context) ([]*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileRepository) GetByID(_ context.Context, id string) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *FileRepository) Put(_ context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range recs {
		if existing.ID == rec.ID {
			recs[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		recs = append(recs, rec)
	}
	return r.save(recs)
}

func (r *FileRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load()
	if err != nil {
		return err
	}
	kept := recs[:0]
	for _, rec := range recs {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	return r.save(kept)
}

func (r *FileRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(nil)
}
