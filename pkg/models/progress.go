package models

import "time"

// LessonProgress tracks a user's movement through one lesson
type LessonProgress struct {
	ID                 int64      `json:"id" db:"id"`
	UserID             int64      `json:"user_id" db:"user_id"`
	LessonID           int64      `json:"lesson_id" db:"lesson_id"`
	IsStarted          bool       `json:"is_started" db:"is_started"`
	IsCompleted        bool       `json:"is_completed" db:"is_completed"`
	CompletedExercises int        `json:"completed_exercises" db:"completed_exercises"`
	TotalExercises     int        `json:"total_exercises" db:"total_exercises"`
	Score              float64    `json:"score" db:"score"`
	TimeSpentSeconds   int        `json:"time_spent_seconds" db:"time_spent_seconds"`
	StartedAt          *time.Time `json:"started_at" db:"started_at"`
	CompletedAt        *time.Time `json:"completed_at" db:"completed_at"`
	LastActivityAt     *time.Time `json:"last_activity_at" db:"last_activity_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// RecentActivity is a lesson progress row joined with its lesson title,
// used by the recent-activity feed
type RecentActivity struct {
	LessonProgress
	LessonTitle string `json:"lesson_title" db:"lesson_title"`
}
