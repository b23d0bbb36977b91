package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/excel"
	"github.com/example/kapp/internal/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams review history as a spreadsheet
type ExportHandler struct {
	log *logger.Logger
}

func NewExportHandler(log *logger.Logger) *ExportHandler {
	return &ExportHandler{log: log.With("handler", "ExportHandler")}
}

// ExportReviews handles GET /api/stats/export
func (h *ExportHandler) ExportReviews(c *gin.Context) {
	config := excel.DefaultExportConfig()
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be a non-negative integer"))
			return
		}
		config.HistoryLimit = limit
	}

	now := time.Now().UTC()
	result, err := excel.ExportReviews(currentUserID, now, config)
	if err != nil {
		h.log.Error("failed to build review export", "error", err)
		RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}

	filename := fmt.Sprintf("reviews-%s.xlsx", now.Format("2006-01-02"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := result.File.Write(c.Writer); err != nil {
		h.log.Error("failed to stream review export", "error", err)
		return
	}
	h.log.Info("review export served",
		"vocabulary_rows", result.VocabularyRows,
		"exercise_rows", result.ExerciseRows)
}
