package models

import "time"

// Lesson is a single study session inside a unit, with optional grammar notes
type Lesson struct {
	ID                 int64     `json:"id" db:"id"`
	UnitID             int64     `json:"unit_id" db:"unit_id"`
	Title              string    `json:"title" db:"title"`
	Description        string    `json:"description" db:"description"`
	GrammarExplanation string    `json:"grammar_explanation" db:"grammar_explanation"`
	GrammarTip         string    `json:"grammar_tip" db:"grammar_tip"`
	DisplayOrder       int       `json:"display_order" db:"display_order"`
	EstimatedMinutes   int       `json:"estimated_minutes" db:"estimated_minutes"`
	IsLocked           bool      `json:"is_locked" db:"is_locked"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
