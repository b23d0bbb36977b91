package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/kapp/pkg/models"
)

// ProgressRepository handles database operations for lesson progress
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// GetByUserAndLesson returns progress for one lesson, or nil when the user
// hasn't touched it
func (r *ProgressRepository) GetByUserAndLesson(userID, lessonID int64) (*models.LessonProgress, error) {
	var progress models.LessonProgress
	err := DB.Get(&progress, "SELECT * FROM lesson_progress WHERE user_id = $1 AND lesson_id = $2", userID, lessonID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson progress: %v", err)
	}
	return &progress, nil
}

// StartLesson marks a lesson started, creating the progress row if needed.
// Restarting an already-started lesson only refreshes the exercise total and
// activity time.
func (r *ProgressRepository) StartLesson(userID, lessonID int64, totalExercises int, now time.Time) (*models.LessonProgress, error) {
	progress, err := r.GetByUserAndLesson(userID, lessonID)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		progress = &models.LessonProgress{
			UserID:         userID,
			LessonID:       lessonID,
			IsStarted:      true,
			TotalExercises: totalExercises,
			StartedAt:      &now,
			LastActivityAt: &now,
		}
		if err := r.insert(progress); err != nil {
			return nil, err
		}
		return progress, nil
	}

	progress.IsStarted = true
	if progress.StartedAt == nil {
		progress.StartedAt = &now
	}
	progress.TotalExercises = totalExercises
	progress.LastActivityAt = &now
	if err := r.update(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// RecordExerciseResult counts one answered exercise. Only correct answers
// advance the completed counter; every answer refreshes activity time. The
// row is created on the fly when the lesson was never formally started.
func (r *ProgressRepository) RecordExerciseResult(userID, lessonID int64, correct bool, totalExercises int, now time.Time) (*models.LessonProgress, error) {
	progress, err := r.GetByUserAndLesson(userID, lessonID)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		progress = &models.LessonProgress{
			UserID:         userID,
			LessonID:       lessonID,
			IsStarted:      true,
			TotalExercises: totalExercises,
			StartedAt:      &now,
			LastActivityAt: &now,
		}
		if correct {
			progress.CompletedExercises = 1
		}
		if err := r.insert(progress); err != nil {
			return nil, err
		}
		return progress, nil
	}

	if correct && progress.CompletedExercises < progress.TotalExercises {
		progress.CompletedExercises++
	}
	progress.LastActivityAt = &now
	if err := r.update(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// CompleteLesson marks a lesson finished and accumulates study time
func (r *ProgressRepository) CompleteLesson(userID, lessonID int64, score float64, timeSpentSeconds int, now time.Time) (*models.LessonProgress, error) {
	progress, err := r.GetByUserAndLesson(userID, lessonID)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		progress = &models.LessonProgress{
			UserID:    userID,
			LessonID:  lessonID,
			IsStarted: true,
			StartedAt: &now,
		}
		if err := r.insert(progress); err != nil {
			return nil, err
		}
	}

	progress.IsCompleted = true
	progress.CompletedAt = &now
	progress.Score = score
	progress.TimeSpentSeconds += timeSpentSeconds
	progress.LastActivityAt = &now
	if err := r.update(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *ProgressRepository) insert(progress *models.LessonProgress) error {
	query := `
		INSERT INTO lesson_progress (
			user_id, lesson_id, is_started, is_completed, completed_exercises,
			total_exercises, score, time_spent_seconds, started_at, completed_at, last_activity_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if DB.DriverName() == "postgres" {
		return DB.QueryRow(
			query+" RETURNING id",
			progress.UserID,
			progress.LessonID,
			progress.IsStarted,
			progress.IsCompleted,
			progress.CompletedExercises,
			progress.TotalExercises,
			progress.Score,
			progress.TimeSpentSeconds,
			progress.StartedAt,
			progress.CompletedAt,
			progress.LastActivityAt,
		).Scan(&progress.ID)
	}

	result, err := DB.Exec(
		query,
		progress.UserID,
		progress.LessonID,
		progress.IsStarted,
		progress.IsCompleted,
		progress.CompletedExercises,
		progress.TotalExercises,
		progress.Score,
		progress.TimeSpentSeconds,
		progress.StartedAt,
		progress.CompletedAt,
		progress.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lesson progress: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted progress id: %v", err)
	}
	progress.ID = id
	return nil
}

func (r *ProgressRepository) update(progress *models.LessonProgress) error {
	_, err := DB.Exec(`
		UPDATE lesson_progress SET
			is_started = $1,
			is_completed = $2,
			completed_exercises = $3,
			total_exercises = $4,
			score = $5,
			time_spent_seconds = $6,
			started_at = $7,
			completed_at = $8,
			last_activity_at = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
	`,
		progress.IsStarted,
		progress.IsCompleted,
		progress.CompletedExercises,
		progress.TotalExercises,
		progress.Score,
		progress.TimeSpentSeconds,
		progress.StartedAt,
		progress.CompletedAt,
		progress.LastActivityAt,
		progress.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson progress: %v", err)
	}
	return nil
}

// Summary returns overall lesson progress numbers for the user
func (r *ProgressRepository) Summary(userID int64) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalLessons int
	if err := DB.Get(&totalLessons, "SELECT COUNT(*) FROM lessons"); err != nil {
		return nil, fmt.Errorf("failed to count lessons: %v", err)
	}
	stats["total_lessons"] = totalLessons

	var started, completed int
	err := DB.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN is_started THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0)
		FROM lesson_progress WHERE user_id = $1
	`, userID).Scan(&started, &completed)
	if err != nil {
		return nil, fmt.Errorf("failed to sum lesson progress: %v", err)
	}
	stats["lessons_started"] = started
	stats["lessons_completed"] = completed

	percent := 0.0
	if totalLessons > 0 {
		percent = float64(completed) / float64(totalLessons) * 100
	}
	stats["completion_percent"] = percent

	var totalTime int
	err = DB.Get(&totalTime, "SELECT COALESCE(SUM(time_spent_seconds), 0) FROM lesson_progress WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum study time: %v", err)
	}
	stats["total_time_seconds"] = totalTime

	var avgScore float64
	err = DB.Get(&avgScore, "SELECT COALESCE(AVG(score), 0) FROM lesson_progress WHERE user_id = $1 AND is_completed = $2", userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get average score: %v", err)
	}
	stats["average_score"] = avgScore

	return stats, nil
}

// ActivityTimes returns every recorded activity timestamp, newest first.
// The study streak is derived from these in Go so the calendar arithmetic
// stays portable across drivers.
func (r *ProgressRepository) ActivityTimes(userID int64) ([]time.Time, error) {
	var times []time.Time
	err := DB.Select(&times, `
		SELECT last_activity_at FROM lesson_progress
		WHERE user_id = $1 AND last_activity_at IS NOT NULL
		ORDER BY last_activity_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity times: %v", err)
	}
	return times, nil
}

// Recent returns the user's most recently touched lessons with titles
func (r *ProgressRepository) Recent(userID int64, limit int) ([]models.RecentActivity, error) {
	var recent []models.RecentActivity
	err := DB.Select(&recent, `
		SELECT lp.*, l.title AS lesson_title FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		WHERE lp.user_id = $1 AND lp.last_activity_at IS NOT NULL
		ORDER BY lp.last_activity_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %v", err)
	}
	return recent, nil
}
