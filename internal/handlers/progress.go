package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/logger"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress *database.ProgressRepository
}

func NewProgressHandler(log *logger.Logger, progress *database.ProgressRepository) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		progress: progress,
	}
}

// GET /api/progress
func (h *ProgressHandler) Summary(c *gin.Context) {
	summary, err := h.progress.Summary(currentUserID)
	if err != nil {
		h.log.Error("Summary failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_progress_failed", err)
		return
	}

	times, err := h.progress.ActivityTimes(currentUserID)
	if err != nil {
		h.log.Error("Summary streak failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_progress_failed", err)
		return
	}
	summary["streak_days"] = studyStreak(times, time.Now().UTC())

	RespondOK(c, summary)
}

// GET /api/progress/recent?limit=5
func (h *ProgressHandler) Recent(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}

	recent, err := h.progress.Recent(currentUserID, limit)
	if err != nil {
		h.log.Error("Recent failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_progress_failed", err)
		return
	}

	RespondOK(c, gin.H{"recent": recent})
}

// studyStreak counts consecutive days with activity, walking back from
// today. A streak survives until a full calendar day passes with nothing
// studied, so activity yesterday but not yet today still counts.
func studyStreak(times []time.Time, now time.Time) int {
	if len(times) == 0 {
		return 0
	}

	days := make(map[string]bool, len(times))
	for _, t := range times {
		days[t.UTC().Format("2006-01-02")] = true
	}

	cursor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !days[cursor.Format("2006-01-02")] {
		cursor = cursor.AddDate(0, 0, -1)
		if !days[cursor.Format("2006-01-02")] {
			return 0
		}
	}

	streak := 0
	for days[cursor.Format("2006-01-02")] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
