package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/logger"
	"github.com/example/kapp/pkg/models"
)

// Items answered correctly less often than this are offered for targeted
// practice
const weaknessThreshold = 0.8

const defaultWeaknessLimit = 20

type WeaknessHandler struct {
	log         *logger.Logger
	enabled     bool
	vocabSRS    *database.SRSRepository
	exerciseSRS *database.SRSRepository
	vocab       *database.VocabularyRepository
	lessons     *database.LessonRepository
}

func NewWeaknessHandler(
	log *logger.Logger,
	enabled bool,
	vocabSRS, exerciseSRS *database.SRSRepository,
	vocab *database.VocabularyRepository,
	lessons *database.LessonRepository,
) *WeaknessHandler {
	return &WeaknessHandler{
		log:         log.With("handler", "WeaknessHandler"),
		enabled:     enabled,
		vocabSRS:    vocabSRS,
		exerciseSRS: exerciseSRS,
		vocab:       vocab,
		lessons:     lessons,
	}
}

type weakItem struct {
	ItemID         int64       `json:"item_id"`
	Item           interface{} `json:"item"`
	Accuracy       float64     `json:"accuracy"`
	TimesPracticed int         `json:"times_practiced"`
}

// GET /api/review/weaknesses?kind=vocabulary&limit=10
func (h *WeaknessHandler) WeakItems(c *gin.Context) {
	kind := c.Query("kind")

	// Switched off means "no weaknesses", not an error
	if !h.enabled {
		RespondOK(c, gin.H{"kind": kind, "items": []weakItem{}})
		return
	}

	limit := defaultWeaknessLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}

	switch kind {
	case "vocabulary":
		h.weakVocabulary(c, limit)
	case "exercise", "exercises":
		h.weakExercises(c, limit)
	default:
		RespondError(c, http.StatusBadRequest, "invalid_kind", errors.New("kind must be vocabulary or exercises"))
	}
}

func (h *WeaknessHandler) weakVocabulary(c *gin.Context, limit int) {
	states, err := h.vocabSRS.WeakStates(currentUserID, weaknessThreshold, limit)
	if err != nil {
		h.log.Error("weakVocabulary failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_weak_items_failed", err)
		return
	}

	ids := make([]int64, 0, len(states))
	for _, s := range states {
		ids = append(ids, s.ItemID)
	}
	content, err := h.vocab.GetByIDs(ids)
	if err != nil {
		h.log.Error("weakVocabulary hydration failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_weak_items_failed", err)
		return
	}

	items := make([]weakItem, 0, len(states))
	for _, s := range states {
		item, ok := content[s.ItemID]
		if !ok {
			continue
		}
		items = append(items, weakItem{
			ItemID:         s.ItemID,
			Item:           item,
			Accuracy:       s.Accuracy(),
			TimesPracticed: s.TimesPracticed,
		})
	}

	RespondOK(c, gin.H{"kind": models.ItemKindVocabulary, "items": items})
}

func (h *WeaknessHandler) weakExercises(c *gin.Context, limit int) {
	states, err := h.exerciseSRS.WeakStates(currentUserID, weaknessThreshold, limit)
	if err != nil {
		h.log.Error("weakExercises failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_weak_items_failed", err)
		return
	}

	ids := make([]int64, 0, len(states))
	for _, s := range states {
		ids = append(ids, s.ItemID)
	}
	content, err := h.lessons.GetExercisesByIDs(ids)
	if err != nil {
		h.log.Error("weakExercises hydration failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_weak_items_failed", err)
		return
	}

	items := make([]weakItem, 0, len(states))
	for _, s := range states {
		item, ok := content[s.ItemID]
		if !ok {
			continue
		}
		items = append(items, weakItem{
			ItemID:         s.ItemID,
			Item:           item,
			Accuracy:       s.Accuracy(),
			TimesPracticed: s.TimesPracticed,
		})
	}

	RespondOK(c, gin.H{"kind": models.ItemKindExercise, "items": items})
}
