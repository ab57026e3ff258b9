// Package review draws weighted random review batches from the active
// records. Cards the user failed are picked most often, mastered cards
// least often, so a session naturally concentrates on weak spots.
package review

import (
	"math/rand"
	"time"

	"github.com/ekoshkin/recallbox/internal/client/config"
	"github.com/ekoshkin/recallbox/internal/client/models"
)

// Selector picks review batches. It is not safe for concurrent use.
type Selector struct {
	weights config.Weights
	rng     *rand.Rand
}

func NewSelector(weights config.Weights) *Selector {
	return &Selector{
		weights: weights,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// newSelectorWithSource is used by tests to make draws deterministic.
func newSelectorWithSource(weights config.Weights, src rand.Source) *Selector {
	return &Selector{weights: weights, rng: rand.New(src)}
}

func (s *Selector) weightOf(rec *models.Record) int {
	switch rec.MasteryLevel {
	case models.MasteryFail:
		return s.weights.Fail
	case models.MasteryPartial:
		return s.weights.Partial
	case models.MasteryPass:
		return s.weights.Pass
	}
	return s.weights.Unreviewed
}

// Pick returns up to count records drawn without replacement, each record's
// chance proportional to its mastery weight. Deleted records never appear.
// When count meets or exceeds the number of eligible records, all of them
// are returned (still in weighted-random order).
func (s *Selector) Pick(records []*models.Record, count int) []*models.Record {
	type weighted struct {
		rec    *models.Record
		weight int
	}

	pool := make([]weighted, 0, len(records))
	total := 0
	for _, rec := range records {
		if rec.IsTombstone() {
			continue
		}
		w := s.weightOf(rec)
		if w <= 0 {
			continue
		}
		pool = append(pool, weighted{rec: rec, weight: w})
		total += w
	}

	if count > len(pool) {
		count = len(pool)
	}

	batch := make([]*models.Record, 0, count)
	for len(batch) < count {
		roll := s.rng.Intn(total)
		for i, item := range pool {
			roll -= item.weight
			if roll < 0 {
				batch = append(batch, item.rec)
				total -= item.weight
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}
	}
	return batch
}
