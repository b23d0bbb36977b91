package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/kapp/pkg/models"
)

// ErrItemNotFound signals a review or due request against an item id that
// does not exist in the content tables
var ErrItemNotFound = errors.New("item not found")

// Batch limits for due selection
const (
	DefaultDueLimit = 20
	MaxDueLimit     = 50
)

// Store is the persistence surface the engine needs for one item kind.
// *database.SRSRepository satisfies it for both kinds.
type Store interface {
	Kind() models.ItemKind
	ItemExists(itemID int64) (bool, error)
	ApplyReview(userID, itemID int64, apply func(*models.ItemProgress) (*models.ReviewRecord, error)) (*models.ItemProgress, error)
	DueStates(userID int64, now time.Time, limit int, scope string) ([]models.ItemProgress, error)
	CountDue(userID int64, now time.Time, scope string) (int, error)
	NewItemIDs(userID int64, limit int, scope string) ([]int64, error)
}

// DueEntry is one item in a due batch. State is nil for items never
// reviewed before.
type DueEntry struct {
	ItemID int64
	State  *models.SchedulingState
}

// DueBatch is the result of a due selection: the capped batch plus the
// uncapped totals the UI shows ("42 reviews waiting, 5 new").
type DueBatch struct {
	Entries  []DueEntry
	TotalDue int
	NewCount int
}

// Service records reviews and selects due items across item kinds
type Service struct {
	stores map[models.ItemKind]Store
}

// NewService registers one store per item kind
func NewService(stores ...Store) *Service {
	m := make(map[models.ItemKind]Store, len(stores))
	for _, st := range stores {
		m[st.Kind()] = st
	}
	return &Service{stores: m}
}

func (s *Service) store(kind models.ItemKind) (Store, error) {
	st, ok := s.stores[kind]
	if !ok {
		return nil, fmt.Errorf("no store registered for item kind %q", kind)
	}
	return st, nil
}

// RecordReview validates the rating, applies the peek cap, runs the
// scheduler and persists the new state plus a history record in a single
// transaction. Validation failures leave stored state untouched.
func (s *Service) RecordReview(kind models.ItemKind, userID, itemID int64, quality int, peeked bool, now time.Time) (*models.ReviewOutcome, error) {
	if quality < QualityBlackout || quality > QualityPerfect {
		return nil, ErrInvalidQuality
	}

	st, err := s.store(kind)
	if err != nil {
		return nil, err
	}

	exists, err := st.ItemExists(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check item %d: %v", itemID, err)
	}
	if !exists {
		return nil, ErrItemNotFound
	}

	effective := EffectiveQuality(quality, peeked)

	progress, err := st.ApplyReview(userID, itemID, func(p *models.ItemProgress) (*models.ReviewRecord, error) {
		next, err := Schedule(p.SchedulingState, effective, now)
		if err != nil {
			return nil, err
		}
		p.SchedulingState = next
		p.TimesPracticed++
		if effective >= PassThreshold {
			p.TimesCorrect++
		}

		return &models.ReviewRecord{
			UserID:           userID,
			ItemID:           itemID,
			Kind:             kind,
			Quality:          quality,
			EffectiveQuality: effective,
			Peeked:           peeked,
			Interval:         next.Interval,
			EaseFactor:       next.EaseFactor,
			Repetitions:      next.Repetitions,
			ReviewedAt:       now,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &models.ReviewOutcome{
		NextReviewDate: *progress.NextReviewDate,
		Interval:       progress.Interval,
		Repetitions:    progress.Repetitions,
		EaseFactor:     progress.EaseFactor,
	}, nil
}

// DueItems selects the review batch for one kind: items whose review date
// has arrived, oldest first, topped up with never-reviewed items in content
// order when the batch has room. Reading the batch never mutates state.
// scope narrows the selection (vocabulary category, exercise lesson id);
// empty means everything.
func (s *Service) DueItems(kind models.ItemKind, userID int64, now time.Time, limit int, scope string) (*DueBatch, error) {
	st, err := s.store(kind)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultDueLimit
	}
	if limit > MaxDueLimit {
		limit = MaxDueLimit
	}

	states, err := st.DueStates(userID, now, limit, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load due items: %v", err)
	}

	total, err := st.CountDue(userID, now, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count due items: %v", err)
	}

	batch := &DueBatch{Entries: make([]DueEntry, 0, limit), TotalDue: total}
	for i := range states {
		state := states[i].SchedulingState
		batch.Entries = append(batch.Entries, DueEntry{ItemID: states[i].ItemID, State: &state})
	}

	if remaining := limit - len(batch.Entries); remaining > 0 {
		ids, err := st.NewItemIDs(userID, remaining, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to load new items: %v", err)
		}
		for _, id := range ids {
			batch.Entries = append(batch.Entries, DueEntry{ItemID: id})
		}
		batch.NewCount = len(ids)
	}

	return batch, nil
}

// DueCount returns the uncapped number of due items for one kind. The
// reminder scheduler polls this without assembling a batch.
func (s *Service) DueCount(kind models.ItemKind, userID int64, now time.Time) (int, error) {
	st, err := s.store(kind)
	if err != nil {
		return 0, err
	}
	return st.CountDue(userID, now, "")
}
