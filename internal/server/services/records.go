// Package services holds the server-side business layer between the HTTP
// handlers and the repositories.
package services

import (
	"context"
	"database/sql"

	"github.com/ekoshkin/recallbox/internal/dbx"
	"github.com/ekoshkin/recallbox/internal/server/models"
	"github.com/ekoshkin/recallbox/internal/server/repositories/records"
)

// RecordService wraps the record repository with the sync rules that need
// read-after-write consistency. It satisfies records.Repository, so the
// HTTP handlers and the purge worker consume it in place of a bare repo.
type RecordService struct {
	db   *sql.DB
	repo records.Repository
}

func NewRecordService(db *sql.DB, repo records.Repository) *RecordService {
	return &RecordService{db: db, repo: repo}
}

// Upsert runs the guarded upsert in a transaction. When the stored
// tombstone refuses the write, the repository reads the marker back so the
// client receives the row that actually won; the transaction keeps that
// read consistent with the write.
func (s *RecordService) Upsert(ctx context.Context, rec *models.Record) (*models.Record, error) {
	var stored *models.Record

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		stored, err = records.NewPostgresRepository(tx).Upsert(ctx, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *RecordService) GetByID(ctx context.Context, id string) (*models.Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RecordService) SelectUpdatedSince(ctx context.Context, cursor int64) ([]*models.Record, error) {
	return s.repo.SelectUpdatedSince(ctx, cursor)
}

func (s *RecordService) DeleteByID(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteByID(ctx, id)
}

func (s *RecordService) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	return s.repo.DeleteExpired(ctx, now)
}
