package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/kapp/pkg/models"
)

// LessonRepository handles database operations for lessons and exercises
type LessonRepository struct{}

// NewLessonRepository creates a new repository instance
func NewLessonRepository() *LessonRepository {
	return &LessonRepository{}
}

// GetLessonsByUnit returns a unit's lessons in display order
func (r *LessonRepository) GetLessonsByUnit(unitID int64) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := DB.Select(&lessons, "SELECT * FROM lessons WHERE unit_id = $1 ORDER BY display_order ASC, id ASC", unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %v", err)
	}
	return lessons, nil
}

// GetLessonByID returns a single lesson, or nil when it doesn't exist
func (r *LessonRepository) GetLessonByID(id int64) (*models.Lesson, error) {
	var lesson models.Lesson
	err := DB.Get(&lesson, "SELECT * FROM lessons WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %v", err)
	}
	return &lesson, nil
}

// GetExercisesByLesson returns a lesson's exercises in display order
func (r *LessonRepository) GetExercisesByLesson(lessonID int64) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := DB.Select(&exercises, "SELECT * FROM exercises WHERE lesson_id = $1 ORDER BY display_order ASC, id ASC", lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exercises: %v", err)
	}
	return exercises, nil
}

// CountExercisesByLesson returns how many exercises a lesson contains
func (r *LessonRepository) CountExercisesByLesson(lessonID int64) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM exercises WHERE lesson_id = $1", lessonID)
	if err != nil {
		return 0, fmt.Errorf("failed to count exercises: %v", err)
	}
	return count, nil
}

// GetExerciseByID returns a single exercise, or nil when it doesn't exist
func (r *LessonRepository) GetExerciseByID(id int64) (*models.Exercise, error) {
	var exercise models.Exercise
	err := DB.Get(&exercise, "SELECT * FROM exercises WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise: %v", err)
	}
	return &exercise, nil
}

// GetExercisesByIDs returns the exercises for the given ids, keyed by id
func (r *LessonRepository) GetExercisesByIDs(ids []int64) (map[int64]models.Exercise, error) {
	result := make(map[int64]models.Exercise, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In("SELECT * FROM exercises WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build exercise query: %v", err)
	}
	query = DB.Rebind(query)

	var exercises []models.Exercise
	if err := DB.Select(&exercises, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get exercises: %v", err)
	}
	for _, e := range exercises {
		result[e.ID] = e
	}
	return result, nil
}
