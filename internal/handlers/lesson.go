package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/logger"
	"github.com/example/kapp/internal/srs"
	"github.com/example/kapp/pkg/models"
)

type LessonHandler struct {
	log      *logger.Logger
	lessons  *database.LessonRepository
	progress *database.ProgressRepository
	reviews  *srs.Service
}

func NewLessonHandler(log *logger.Logger, lessons *database.LessonRepository, progress *database.ProgressRepository, reviews *srs.Service) *LessonHandler {
	return &LessonHandler{
		log:      log.With("handler", "LessonHandler"),
		lessons:  lessons,
		progress: progress,
		reviews:  reviews,
	}
}

// GET /api/lessons/:id
func (h *LessonHandler) GetLesson(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}

	lesson, err := h.lessons.GetLessonByID(id)
	if err != nil {
		h.log.Error("GetLesson failed", "error", err, "lesson_id", id)
		RespondError(c, http.StatusInternalServerError, "load_lesson_failed", err)
		return
	}
	if lesson == nil {
		RespondError(c, http.StatusNotFound, "lesson_not_found", nil)
		return
	}

	// Correct answers and explanations stay server side until the learner
	// submits
	exercises, err := h.lessons.GetExercisesByLesson(id)
	if err != nil {
		h.log.Error("GetLesson exercises failed", "error", err, "lesson_id", id)
		RespondError(c, http.StatusInternalServerError, "load_exercises_failed", err)
		return
	}

	progress, err := h.progress.GetByUserAndLesson(currentUserID, id)
	if err != nil {
		h.log.Error("GetLesson progress failed", "error", err, "lesson_id", id)
		RespondError(c, http.StatusInternalServerError, "load_progress_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"lesson":    lesson,
		"exercises": exercises,
		"progress":  progress,
	})
}

// POST /api/lessons/:id/start
func (h *LessonHandler) StartLesson(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}

	lesson, err := h.lessons.GetLessonByID(id)
	if err != nil {
		h.log.Error("StartLesson failed", "error", err, "lesson_id", id)
		RespondError(c, http.StatusInternalServerError, "load_lesson_failed", err)
		return
	}
	if lesson == nil {
		RespondError(c, http.StatusNotFound, "lesson_not_found", nil)
		return
	}

	total, err := h.lessons.CountExercisesByLesson(id)
	if err != nil {
		h.log.Error("StartLesson count failed", "error", err, "lesson_id", id)
		RespondError(c, http.StatusInternalServerError, "start_lesson_failed", err)
		return
	}

	progress, err := h.progress.StartLesson(currentUserID, id, total, time.Now().UTC())
	if err != nil {
		h.log.Error("StartLesson failed", "error", err, "lesson_id", id)
		RespondError(c, http.StatusInternalServerError, "start_lesson_failed", err)
		return
	}

	RespondOK(c, gin.H{"progress": progress})
}

type submitExerciseRequest struct {
	Answer string `json:"answer"`
}

// POST /api/exercises/:id/submit
//
// Checks the learner's answer, feeds the result into both lesson progress
// and the review schedule, and reveals the correct answer with its
// explanation.
func (h *LessonHandler) SubmitExercise(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_exercise_id", err)
		return
	}

	var req submitExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	exercise, err := h.lessons.GetExerciseByID(id)
	if err != nil {
		h.log.Error("SubmitExercise failed", "error", err, "exercise_id", id)
		RespondError(c, http.StatusInternalServerError, "load_exercise_failed", err)
		return
	}
	if exercise == nil {
		RespondError(c, http.StatusNotFound, "exercise_not_found", nil)
		return
	}

	correct := answersMatch(req.Answer, exercise.CorrectAnswer)
	now := time.Now().UTC()

	total, err := h.lessons.CountExercisesByLesson(exercise.LessonID)
	if err != nil {
		h.log.Error("SubmitExercise count failed", "error", err, "exercise_id", id)
		RespondError(c, http.StatusInternalServerError, "submit_exercise_failed", err)
		return
	}
	progress, err := h.progress.RecordExerciseResult(currentUserID, exercise.LessonID, correct, total, now)
	if err != nil {
		h.log.Error("SubmitExercise progress failed", "error", err, "exercise_id", id)
		RespondError(c, http.StatusInternalServerError, "submit_exercise_failed", err)
		return
	}

	// Answer checks carry no self-assessment, so they map onto the rating
	// scale as plain pass or fail
	quality := srs.QualityIncorrectFamiliar
	if correct {
		quality = srs.QualityCorrectHesitation
	}
	outcome, err := h.reviews.RecordReview(models.ItemKindExercise, currentUserID, id, quality, false, now)
	if err != nil {
		h.log.Error("SubmitExercise review failed", "error", err, "exercise_id", id)
		respondReviewError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"correct":        correct,
		"correct_answer": exercise.CorrectAnswer,
		"explanation":    exercise.Explanation,
		"outcome":        outcome,
		"progress":       progress,
	})
}

type completeLessonRequest struct {
	Score            float64 `json:"score"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`
}

// POST /api/lessons/:id/complete
func (h *LessonHandler) CompleteLesson(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}

	var req completeLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	lesson, err := h.lessons.GetLessonByID(id)
	if err != nil {
		h.log.Error("CompleteLesson failed", "error", err, "lesson_id", id)
		RespondError(c, http.StatusInternalServerError, "load_lesson_failed", err)
		return
	}
	if lesson == nil {
		RespondError(c, http.StatusNotFound, "lesson_not_found", nil)
		return
	}

	progress, err := h.progress.CompleteLesson(currentUserID, id, req.Score, req.TimeSpentSeconds, time.Now().UTC())
	if err != nil {
		h.log.Error("CompleteLesson failed", "error", err, "lesson_id", id)
		RespondError(c, http.StatusInternalServerError, "complete_lesson_failed", err)
		return
	}

	RespondOK(c, gin.H{"progress": progress})
}

// answersMatch compares a submitted answer against the expected one,
// ignoring case and surrounding whitespace
func answersMatch(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}
