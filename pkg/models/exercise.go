package models

import (
	"encoding/json"
	"time"
)

// Exercise types supported by the lesson player
const (
	ExerciseTypeVocabulary = "vocabulary"
	ExerciseTypeGrammar    = "grammar"
	ExerciseTypeReading    = "reading"
	ExerciseTypeListening  = "listening"
	ExerciseTypeReview     = "review"
)

// Exercise is one task inside a lesson. CorrectAnswer is never serialized;
// handlers that may reveal it do so explicitly after a submission or during
// a review session.
type Exercise struct {
	ID            int64           `json:"id" db:"id"`
	LessonID      int64           `json:"lesson_id" db:"lesson_id"`
	ExerciseType  string          `json:"exercise_type" db:"exercise_type"`
	Question      string          `json:"question" db:"question"`
	Instruction   string          `json:"instruction" db:"instruction"`
	KoreanText    string          `json:"korean_text" db:"korean_text"`
	Romanization  string          `json:"romanization" db:"romanization"`
	EnglishText   string          `json:"english_text" db:"english_text"`
	Options       json.RawMessage `json:"options" db:"options"` // JSON array of answer choices
	CorrectAnswer string          `json:"-" db:"correct_answer"`
	ContentText   string          `json:"content_text" db:"content_text"`
	AudioURL      string          `json:"audio_url" db:"audio_url"`
	Explanation   string          `json:"-" db:"explanation"`
	DisplayOrder  int             `json:"display_order" db:"display_order"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}
