package models

import "time"

// VocabularyItem is one glossary entry, independent of any lesson
type VocabularyItem struct {
	ID              int64     `json:"id" db:"id"`
	Korean          string    `json:"korean" db:"korean"`
	Romanization    string    `json:"romanization" db:"romanization"`
	English         string    `json:"english" db:"english"`
	PartOfSpeech    string    `json:"part_of_speech" db:"part_of_speech"`
	ExampleKorean   string    `json:"example_sentence_korean" db:"example_sentence_korean"`
	ExampleEnglish  string    `json:"example_sentence_english" db:"example_sentence_english"`
	AudioURL        string    `json:"audio_url" db:"audio_url"`
	Category        string    `json:"category" db:"category"`
	DifficultyLevel int       `json:"difficulty_level" db:"difficulty_level"` // 1-5 scale
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
