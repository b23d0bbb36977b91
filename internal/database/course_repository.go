package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/kapp/pkg/models"
)

// CourseRepository handles database operations for courses and units
type CourseRepository struct{}

// NewCourseRepository creates a new repository instance
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{}
}

// GetActiveCourses returns all active courses in display order
func (r *CourseRepository) GetActiveCourses() ([]models.Course, error) {
	var courses []models.Course
	err := DB.Select(&courses, "SELECT * FROM courses WHERE is_active = $1 ORDER BY display_order ASC, id ASC", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %v", err)
	}
	return courses, nil
}

// GetByID returns a single course, or nil when it doesn't exist
func (r *CourseRepository) GetByID(id int64) (*models.Course, error) {
	var course models.Course
	err := DB.Get(&course, "SELECT * FROM courses WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %v", err)
	}
	return &course, nil
}

// GetUnitsByCourse returns a course's units in display order
func (r *CourseRepository) GetUnitsByCourse(courseID int64) ([]models.Unit, error) {
	var units []models.Unit
	err := DB.Select(&units, "SELECT * FROM units WHERE course_id = $1 ORDER BY display_order ASC, id ASC", courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get units: %v", err)
	}
	return units, nil
}

// GetUnitByID returns a single unit, or nil when it doesn't exist
func (r *CourseRepository) GetUnitByID(id int64) (*models.Unit, error) {
	var unit models.Unit
	err := DB.Get(&unit, "SELECT * FROM units WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %v", err)
	}
	return &unit, nil
}

// CountUnitsByCourse returns how many units a course contains
func (r *CourseRepository) CountUnitsByCourse(courseID int64) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM units WHERE course_id = $1", courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to count units: %v", err)
	}
	return count, nil
}

// CountLessonsByCourse returns how many lessons a course contains
func (r *CourseRepository) CountLessonsByCourse(courseID int64) (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COUNT(*) FROM lessons l
		JOIN units u ON u.id = l.unit_id
		WHERE u.course_id = $1
	`, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %v", err)
	}
	return count, nil
}

// CountCompletedLessonsByCourse returns how many of a course's lessons the
// user has completed
func (r *CourseRepository) CountCompletedLessonsByCourse(courseID, userID int64) (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COUNT(*) FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		JOIN units u ON u.id = l.unit_id
		WHERE u.course_id = $1 AND lp.user_id = $2 AND lp.is_completed = $3
	`, courseID, userID, true)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %v", err)
	}
	return count, nil
}
