package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/logger"
	"github.com/example/kapp/internal/srs"
	"github.com/example/kapp/pkg/models"
)

type ReviewHandler struct {
	log         *logger.Logger
	reviews     *srs.Service
	vocabSRS    *database.SRSRepository
	exerciseSRS *database.SRSRepository
	vocab       *database.VocabularyRepository
	lessons     *database.LessonRepository
}

func NewReviewHandler(
	log *logger.Logger,
	reviews *srs.Service,
	vocabSRS, exerciseSRS *database.SRSRepository,
	vocab *database.VocabularyRepository,
	lessons *database.LessonRepository,
) *ReviewHandler {
	return &ReviewHandler{
		log:         log.With("handler", "ReviewHandler"),
		reviews:     reviews,
		vocabSRS:    vocabSRS,
		exerciseSRS: exerciseSRS,
		vocab:       vocab,
		lessons:     lessons,
	}
}

// respondReviewError maps engine errors onto HTTP statuses. Validation
// problems are the client's fault; everything else is a server error.
func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, srs.ErrInvalidQuality):
		RespondError(c, http.StatusBadRequest, "invalid_quality", err)
	case errors.Is(err, srs.ErrItemNotFound):
		RespondError(c, http.StatusNotFound, "item_not_found", err)
	default:
		RespondError(c, http.StatusInternalServerError, "record_review_failed", err)
	}
}

type reviewRequest struct {
	// Quality is the 0..5 self-assessment. Clients without a rating UI may
	// send Correct instead and get a plain pass/fail mapping.
	Quality *int  `json:"quality"`
	Correct *bool `json:"correct"`
	Peeked  bool  `json:"peeked"`
}

func (r *reviewRequest) resolveQuality() (int, bool) {
	if r.Quality != nil {
		return *r.Quality, true
	}
	if r.Correct != nil {
		if *r.Correct {
			return srs.QualityCorrectHesitation, true
		}
		return srs.QualityIncorrectFamiliar, true
	}
	return 0, false
}

// POST /api/vocabulary/:id/review
func (h *ReviewHandler) ReviewVocabulary(c *gin.Context) {
	h.recordReview(c, models.ItemKindVocabulary)
}

// POST /api/exercises/:id/review
func (h *ReviewHandler) ReviewExercise(c *gin.Context) {
	h.recordReview(c, models.ItemKindExercise)
}

func (h *ReviewHandler) recordReview(c *gin.Context, kind models.ItemKind) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	quality, ok := req.resolveQuality()
	if !ok {
		RespondError(c, http.StatusBadRequest, "missing_quality", errors.New("request needs either quality or correct"))
		return
	}

	outcome, err := h.reviews.RecordReview(kind, currentUserID, itemID, quality, req.Peeked, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, srs.ErrInvalidQuality) && !errors.Is(err, srs.ErrItemNotFound) {
			h.log.Error("recordReview failed", "error", err, "kind", kind, "item_id", itemID)
		}
		respondReviewError(c, err)
		return
	}

	RespondOK(c, outcome)
}

// dueItem pairs hydrated content with its scheduling state. State is null
// for items entering the rotation for the first time.
type dueItem struct {
	ItemID int64                   `json:"item_id"`
	Item   interface{}             `json:"item"`
	State  *models.SchedulingState `json:"state"`
	IsNew  bool                    `json:"is_new"`
}

// GET /api/vocabulary/due
func (h *ReviewHandler) DueVocabulary(c *gin.Context) {
	h.dueItems(c, models.ItemKindVocabulary, c.Query("category"))
}

// GET /api/exercises/due
func (h *ReviewHandler) DueExercises(c *gin.Context) {
	h.dueItems(c, models.ItemKindExercise, c.Query("lesson_id"))
}

func (h *ReviewHandler) dueItems(c *gin.Context, kind models.ItemKind, scope string) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}

	batch, err := h.reviews.DueItems(kind, currentUserID, time.Now().UTC(), limit, scope)
	if err != nil {
		h.log.Error("dueItems failed", "error", err, "kind", kind)
		RespondError(c, http.StatusInternalServerError, "load_due_items_failed", err)
		return
	}

	items, err := h.hydrate(kind, batch)
	if err != nil {
		h.log.Error("dueItems hydration failed", "error", err, "kind", kind)
		RespondError(c, http.StatusInternalServerError, "load_due_items_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"kind":      kind,
		"items":     items,
		"total_due": batch.TotalDue,
		"new_count": batch.NewCount,
	})
}

// hydrate attaches content rows to the batch entries, preserving batch order
func (h *ReviewHandler) hydrate(kind models.ItemKind, batch *srs.DueBatch) ([]dueItem, error) {
	ids := make([]int64, 0, len(batch.Entries))
	for _, entry := range batch.Entries {
		ids = append(ids, entry.ItemID)
	}

	items := make([]dueItem, 0, len(batch.Entries))
	switch kind {
	case models.ItemKindVocabulary:
		content, err := h.vocab.GetByIDs(ids)
		if err != nil {
			return nil, err
		}
		for _, entry := range batch.Entries {
			item, ok := content[entry.ItemID]
			if !ok {
				continue
			}
			items = append(items, dueItem{ItemID: entry.ItemID, Item: item, State: entry.State, IsNew: entry.State == nil})
		}
	case models.ItemKindExercise:
		content, err := h.lessons.GetExercisesByIDs(ids)
		if err != nil {
			return nil, err
		}
		for _, entry := range batch.Entries {
			item, ok := content[entry.ItemID]
			if !ok {
				continue
			}
			items = append(items, dueItem{ItemID: entry.ItemID, Item: item, State: entry.State, IsNew: entry.State == nil})
		}
	}
	return items, nil
}

// GET /api/srs/preview?kind=vocabulary&item_id=7
//
// Returns the interval each rating would produce, for labelling the rating
// buttons before the learner answers.
func (h *ReviewHandler) Preview(c *gin.Context) {
	repo, ok := h.repoForKind(c.Query("kind"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_kind", errors.New("kind must be vocabulary or exercises"))
		return
	}

	itemID, err := strconv.ParseInt(c.Query("item_id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
		return
	}

	exists, err := repo.ItemExists(itemID)
	if err != nil {
		h.log.Error("Preview failed", "error", err, "item_id", itemID)
		RespondError(c, http.StatusInternalServerError, "preview_failed", err)
		return
	}
	if !exists {
		RespondError(c, http.StatusNotFound, "item_not_found", nil)
		return
	}

	state := models.NewSchedulingState()
	progress, err := repo.GetState(currentUserID, itemID)
	if err != nil {
		h.log.Error("Preview failed", "error", err, "item_id", itemID)
		RespondError(c, http.StatusInternalServerError, "preview_failed", err)
		return
	}
	if progress != nil {
		state = progress.SchedulingState
	}

	RespondOK(c, gin.H{
		"item_id":   itemID,
		"kind":      repo.Kind(),
		"state":     state,
		"intervals": srs.PreviewIntervals(state, time.Now().UTC()),
	})
}

// GET /api/progress/stats
func (h *ReviewHandler) Stats(c *gin.Context) {
	now := time.Now().UTC()

	vocabStats, err := h.vocabSRS.Statistics(currentUserID, now)
	if err != nil {
		h.log.Error("Stats failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_stats_failed", err)
		return
	}
	exerciseStats, err := h.exerciseSRS.Statistics(currentUserID, now)
	if err != nil {
		h.log.Error("Stats failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_stats_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"vocabulary": vocabStats,
		"exercises":  exerciseStats,
	})
}

// GET /api/reviews/history?kind=vocabulary&limit=50
func (h *ReviewHandler) History(c *gin.Context) {
	repo, ok := h.repoForKind(c.Query("kind"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_kind", errors.New("kind must be vocabulary or exercises"))
		return
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

	records, err := repo.ReviewHistory(currentUserID, limit)
	if err != nil {
		h.log.Error("History failed", "error", err, "kind", repo.Kind())
		RespondError(c, http.StatusInternalServerError, "load_history_failed", err)
		return
	}

	RespondOK(c, gin.H{"kind": repo.Kind(), "reviews": records})
}

func (h *ReviewHandler) repoForKind(kind string) (*database.SRSRepository, bool) {
	switch kind {
	case "vocabulary":
		return h.vocabSRS, true
	case "exercise", "exercises":
		return h.exerciseSRS, true
	default:
		return nil, false
	}
}
