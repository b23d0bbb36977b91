package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/logger"
	"github.com/example/kapp/pkg/models"
)

type CourseHandler struct {
	log     *logger.Logger
	courses *database.CourseRepository
	lessons *database.LessonRepository
}

func NewCourseHandler(log *logger.Logger, courses *database.CourseRepository, lessons *database.LessonRepository) *CourseHandler {
	return &CourseHandler{
		log:     log.With("handler", "CourseHandler"),
		courses: courses,
		lessons: lessons,
	}
}

// courseSummary inlines the structural counts the course picker shows
// alongside each course
type courseSummary struct {
	models.Course
	UnitCount    int `json:"unit_count"`
	TotalLessons int `json:"total_lessons"`
}

// GET /api/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.GetActiveCourses()
	if err != nil {
		h.log.Error("ListCourses failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_courses_failed", err)
		return
	}

	summaries := make([]courseSummary, 0, len(courses))
	for _, course := range courses {
		units, err := h.courses.CountUnitsByCourse(course.ID)
		if err != nil {
			h.log.Error("ListCourses unit count failed", "error", err, "course_id", course.ID)
			RespondError(c, http.StatusInternalServerError, "load_courses_failed", err)
			return
		}
		lessons, err := h.courses.CountLessonsByCourse(course.ID)
		if err != nil {
			h.log.Error("ListCourses lesson count failed", "error", err, "course_id", course.ID)
			RespondError(c, http.StatusInternalServerError, "load_courses_failed", err)
			return
		}
		summaries = append(summaries, courseSummary{Course: course, UnitCount: units, TotalLessons: lessons})
	}

	RespondOK(c, gin.H{"courses": summaries})
}

// GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}

	course, err := h.courses.GetByID(id)
	if err != nil {
		h.log.Error("GetCourse failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "load_course_failed", err)
		return
	}
	if course == nil {
		RespondError(c, http.StatusNotFound, "course_not_found", nil)
		return
	}

	units, err := h.courses.GetUnitsByCourse(id)
	if err != nil {
		h.log.Error("GetCourse units failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "load_units_failed", err)
		return
	}

	totalLessons, err := h.courses.CountLessonsByCourse(id)
	if err != nil {
		h.log.Error("GetCourse lesson count failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "load_course_failed", err)
		return
	}
	completed, err := h.courses.CountCompletedLessonsByCourse(id, currentUserID)
	if err != nil {
		h.log.Error("GetCourse completed count failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "load_course_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"course":            course,
		"units":             units,
		"total_lessons":     totalLessons,
		"completed_lessons": completed,
	})
}

// GET /api/units/:id/lessons
func (h *CourseHandler) ListUnitLessons(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_unit_id", err)
		return
	}

	unit, err := h.courses.GetUnitByID(id)
	if err != nil {
		h.log.Error("ListUnitLessons failed", "error", err, "unit_id", id)
		RespondError(c, http.StatusInternalServerError, "load_unit_failed", err)
		return
	}
	if unit == nil {
		RespondError(c, http.StatusNotFound, "unit_not_found", nil)
		return
	}

	lessons, err := h.lessons.GetLessonsByUnit(id)
	if err != nil {
		h.log.Error("ListUnitLessons failed", "error", err, "unit_id", id)
		RespondError(c, http.StatusInternalServerError, "load_lessons_failed", err)
		return
	}

	RespondOK(c, gin.H{"unit": unit, "lessons": lessons})
}
