package models

import "time"

// ItemKind distinguishes the two reviewable item kinds. They share the same
// scheduling shape but live in separate tables.
type ItemKind string

const (
	ItemKindVocabulary ItemKind = "vocabulary"
	ItemKindExercise   ItemKind = "exercise"
)

// Scheduling defaults
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// SchedulingState is the SM-2 position of one reviewable item for one user.
// Interval is 0 and both dates are nil until the item is reviewed for the
// first time.
type SchedulingState struct {
	Interval       int        `json:"review_interval" db:"review_interval"`
	Repetitions    int        `json:"repetitions" db:"repetitions"`
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`
	NextReviewDate *time.Time `json:"next_review_date" db:"next_review_date"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
}

// NewSchedulingState returns the never-reviewed default state
func NewSchedulingState() SchedulingState {
	return SchedulingState{
		Interval:    0,
		Repetitions: 0,
		EaseFactor:  DefaultEaseFactor,
	}
}

// ItemProgress is one row of vocabulary_srs or exercise_srs: the scheduling
// state plus lifetime practice counters, keyed by (user_id, item_id)
type ItemProgress struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`
	ItemID int64 `json:"item_id" db:"item_id"`
	SchedulingState
	TimesPracticed int       `json:"times_practiced" db:"times_practiced"`
	TimesCorrect   int       `json:"times_correct" db:"times_correct"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Accuracy returns the lifetime share of correct answers, or 0 before any
// practice
func (p *ItemProgress) Accuracy() float64 {
	if p.TimesPracticed == 0 {
		return 0
	}
	return float64(p.TimesCorrect) / float64(p.TimesPracticed)
}

// ReviewRecord is one append-only history row. Quality is what the learner
// submitted; EffectiveQuality is what drove scheduling after the peek cap.
// The interval, ease factor and repetitions columns snapshot the resulting
// state. Records are never updated or deleted.
type ReviewRecord struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	ItemID           int64     `json:"item_id" db:"item_id"`
	Kind             ItemKind  `json:"item_kind" db:"-"`
	Quality          int       `json:"quality" db:"quality"`
	EffectiveQuality int       `json:"effective_quality" db:"effective_quality"`
	Peeked           bool      `json:"peeked" db:"peeked"`
	Interval         int       `json:"review_interval" db:"review_interval"`
	EaseFactor       float64   `json:"ease_factor" db:"ease_factor"`
	Repetitions      int       `json:"repetitions" db:"repetitions"`
	ReviewedAt       time.Time `json:"reviewed_at" db:"reviewed_at"`
}

// ReviewOutcome is what a successful review submission returns to the client
type ReviewOutcome struct {
	NextReviewDate time.Time `json:"next_review_date"`
	Interval       int       `json:"review_interval"`
	Repetitions    int       `json:"repetitions"`
	EaseFactor     float64   `json:"ease_factor"`
}
