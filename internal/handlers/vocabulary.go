package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/logger"
)

type VocabularyHandler struct {
	log      *logger.Logger
	vocab    *database.VocabularyRepository
	vocabSRS *database.SRSRepository
}

func NewVocabularyHandler(log *logger.Logger, vocab *database.VocabularyRepository, vocabSRS *database.SRSRepository) *VocabularyHandler {
	return &VocabularyHandler{
		log:      log.With("handler", "VocabularyHandler"),
		vocab:    vocab,
		vocabSRS: vocabSRS,
	}
}

// GET /api/vocabulary?category=food&difficulty=2&limit=50
func (h *VocabularyHandler) List(c *gin.Context) {
	difficulty := 0
	if raw := c.Query("difficulty"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_difficulty", err)
			return
		}
		difficulty = parsed
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}

	items, err := h.vocab.List(c.Query("category"), difficulty, limit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_vocabulary_failed", err)
		return
	}

	RespondOK(c, gin.H{"items": items})
}

// GET /api/vocabulary/categories
func (h *VocabularyHandler) Categories(c *gin.Context) {
	categories, err := h.vocab.Categories()
	if err != nil {
		h.log.Error("Categories failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_categories_failed", err)
		return
	}
	RespondOK(c, gin.H{"categories": categories})
}

// GET /api/vocabulary/:id
func (h *VocabularyHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
		return
	}

	item, err := h.vocab.GetByID(id)
	if err != nil {
		h.log.Error("Get failed", "error", err, "item_id", id)
		RespondError(c, http.StatusInternalServerError, "load_vocabulary_failed", err)
		return
	}
	if item == nil {
		RespondError(c, http.StatusNotFound, "item_not_found", nil)
		return
	}

	// The schedule view is handy on the detail page; null until first review
	progress, err := h.vocabSRS.GetState(currentUserID, id)
	if err != nil {
		h.log.Error("Get state failed", "error", err, "item_id", id)
		RespondError(c, http.StatusInternalServerError, "load_vocabulary_failed", err)
		return
	}

	payload := gin.H{"item": item}
	if progress != nil {
		payload["state"] = progress.SchedulingState
		payload["times_practiced"] = progress.TimesPracticed
		payload["times_correct"] = progress.TimesCorrect
	} else {
		payload["state"] = nil
	}
	RespondOK(c, payload)
}
