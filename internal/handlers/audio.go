package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/logger"
)

// AudioHandler serves pregenerated pronunciation clips from the local
// cache directory
type AudioHandler struct {
	log *logger.Logger
	dir string
}

func NewAudioHandler(log *logger.Logger, dir string) *AudioHandler {
	return &AudioHandler{
		log: log.With("handler", "AudioHandler"),
		dir: dir,
	}
}

// GET /api/audio/:name
func (h *AudioHandler) Serve(c *gin.Context) {
	// Base strips any path traversal out of the requested name
	name := filepath.Base(c.Param("name"))
	if name == "." || name == string(filepath.Separator) {
		RespondError(c, http.StatusBadRequest, "invalid_audio_name", nil)
		return
	}

	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		RespondError(c, http.StatusNotFound, "audio_not_found", nil)
		return
	}

	c.File(path)
}
