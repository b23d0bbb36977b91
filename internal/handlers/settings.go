package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/logger"
	"github.com/example/kapp/pkg/models"
)

type SettingsHandler struct {
	log      *logger.Logger
	settings *database.SettingsRepository
}

func NewSettingsHandler(log *logger.Logger, settings *database.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{
		log:      log.With("handler", "SettingsHandler"),
		settings: settings,
	}
}

// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(currentUserID)
	if err != nil {
		h.log.Error("Get failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_settings_failed", err)
		return
	}
	RespondOK(c, settings)
}

type updateSettingsRequest struct {
	ImmersionLevel   *int  `json:"immersion_level"`
	AutoplayAudio    *bool `json:"autoplay_audio"`
	ShowRomanization *bool `json:"show_romanization"`
}

// PUT /api/settings
//
// Partial update: absent fields keep their saved values.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	settings, err := h.settings.Get(currentUserID)
	if err != nil {
		h.log.Error("Update load failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "save_settings_failed", err)
		return
	}

	if req.ImmersionLevel != nil {
		level := *req.ImmersionLevel
		if level < models.MinImmersionLevel || level > models.MaxImmersionLevel {
			RespondError(c, http.StatusBadRequest, "invalid_immersion_level",
				fmt.Errorf("immersion level must be between %d and %d", models.MinImmersionLevel, models.MaxImmersionLevel))
			return
		}
		settings.ImmersionLevel = level
	}
	if req.AutoplayAudio != nil {
		settings.AutoplayAudio = *req.AutoplayAudio
	}
	if req.ShowRomanization != nil {
		settings.ShowRomanization = *req.ShowRomanization
	}

	if err := h.settings.Upsert(settings); err != nil {
		h.log.Error("Update failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "save_settings_failed", err)
		return
	}

	RespondOK(c, settings)
}
