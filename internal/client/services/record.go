// Package services holds the client-side application services sitting
// between the CLI and the repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/client/repositories/records"
	"github.com/ekoshkin/recallbox/internal/client/review"
	"github.com/ekoshkin/recallbox/internal/client/tombstone"
	"github.com/ekoshkin/recallbox/internal/common"
	"github.com/ekoshkin/recallbox/internal/logging"
)

// Generator produces optional example text for a new card. Generation is
// best-effort: its failure never blocks storing the card.
type Generator interface {
	Generate(ctx context.Context, category models.Category, input, topic string) (string, error)
}

type RecordService interface {
	Add(ctx context.Context, category models.Category, primary, secondary string) (*models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	List(ctx context.Context) ([]*models.Record, error)
	ListByCategory(ctx context.Context, category models.Category) ([]*models.Record, error)
	Update(ctx context.Context, id, primary, secondary string) error
	UpdateMastery(ctx context.Context, id string, mastery int) error
	Delete(ctx context.Context, id string) error
	ReviewBatch(ctx context.Context, count int) ([]*models.Record, error)
}

type recordService struct {
	records   records.Repository
	tracker   *tombstone.Tracker
	generator Generator
	selector  *review.Selector
	log       logging.Logger
	now       func() time.Time
}

func NewRecordService(repo records.Repository, tracker *tombstone.Tracker, generator Generator, selector *review.Selector, log logging.Logger) RecordService {
	return &recordService{
		records:   repo,
		tracker:   tracker,
		generator: generator,
		selector:  selector,
		log:       log.With("component", "record-service"),
		now:       time.Now,
	}
}

// Add validates the category, stores the card and, when a generator is
// configured, enriches it with generated text. The card is persisted even
// if generation fails.
func (s *recordService) Add(ctx context.Context, category models.Category, primary, secondary string) (*models.Record, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidCategory, category)
	}

	rec := models.NewRecord(category, primary, secondary)

	if s.generator != nil {
		text, err := s.generator.Generate(ctx, category, primary, secondary)
		switch {
		case err == nil:
			rec.GeneratedText = text
		case errors.Is(err, common.ErrAPIKeyMissing):
			s.log.Debug(ctx, "no generator api key, storing card without generated text")
		default:
			s.log.Warn(ctx, "text generation failed, storing card without it", "error", err)
		}
	}

	if err := s.records.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return rec, nil
}

func (s *recordService) Get(ctx context.Context, id string) (*models.Record, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving record: %w", err)
	}
	if rec.IsTombstone() {
		return nil, common.ErrNotFound
	}
	return rec, nil
}

// List returns active records only, newest first.
func (s *recordService) List(ctx context.Context) ([]*models.Record, error) {
	return s.list(ctx, func(*models.Record) bool { return true })
}

func (s *recordService) ListByCategory(ctx context.Context, category models.Category) ([]*models.Record, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidCategory, category)
	}
	return s.list(ctx, func(rec *models.Record) bool { return rec.Category == category })
}

func (s *recordService) list(ctx context.Context, keep func(*models.Record) bool) ([]*models.Record, error) {
	rows, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}

	result := make([]*models.Record, 0, len(rows))
	for _, rec := range rows {
		if rec.IsTombstone() || !keep(rec) {
			continue
		}
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	return result, nil
}

func (s *recordService) Update(ctx context.Context, id, primary, secondary string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.PrimaryText = primary
	rec.SecondaryText = secondary
	rec.Touch()
	if err := s.records.Put(ctx, rec); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

func (s *recordService) UpdateMastery(ctx context.Context, id string, mastery int) error {
	if mastery < models.MasteryUnreviewed || mastery > models.MasteryPass {
		return fmt.Errorf("invalid mastery level: %d", mastery)
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.MasteryLevel = mastery
	rec.Touch()
	if err := s.records.Put(ctx, rec); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

// Delete records the id in the tombstone ledger first, then flags the
// stored record. The ledger write is the durable one: once it returns,
// the deletion survives crashes and is propagated on the next sync cycle.
func (s *recordService) Delete(ctx context.Context, id string) error {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("error retrieving record: %w", err)
	}

	if err := s.tracker.MarkDeleted(ctx, id); err != nil {
		return fmt.Errorf("error recording deletion: %w", err)
	}

	if rec == nil {
		return nil
	}
	rec.MarkDeleted(s.now())
	if err := s.records.Put(ctx, rec); err != nil {
		// the ledger already holds the deletion, sync will repair the flag
		s.log.Warn(ctx, "failed to flag deleted record", "id", id, "error", err)
	}
	return nil
}

func (s *recordService) ReviewBatch(ctx context.Context, count int) ([]*models.Record, error) {
	rows, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	return s.selector.Pick(rows, count), nil
}
