package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/ai"
	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/logger"
)

// ExplainHandler answers "why is this the right answer?" with a generated
// grammar explanation. chatgpt is nil when the feature is switched off.
type ExplainHandler struct {
	log     *logger.Logger
	chatgpt *ai.ChatGPT
	lessons *database.LessonRepository
}

func NewExplainHandler(log *logger.Logger, chatgpt *ai.ChatGPT, lessons *database.LessonRepository) *ExplainHandler {
	return &ExplainHandler{
		log:     log.With("handler", "ExplainHandler"),
		chatgpt: chatgpt,
		lessons: lessons,
	}
}

type explainRequest struct {
	ExerciseID int64  `json:"exercise_id"`
	Answer     string `json:"answer"`
}

// POST /api/llm/explain
func (h *ExplainHandler) Explain(c *gin.Context) {
	if h.chatgpt == nil {
		RespondError(c, http.StatusServiceUnavailable, "llm_disabled", errors.New("LLM is disabled"))
		return
	}

	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.ExerciseID == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_exercise_id", errors.New("exercise_id is required"))
		return
	}

	exercise, err := h.lessons.GetExerciseByID(req.ExerciseID)
	if err != nil {
		h.log.Error("Explain failed", "error", err, "exercise_id", req.ExerciseID)
		RespondError(c, http.StatusInternalServerError, "load_exercise_failed", err)
		return
	}
	if exercise == nil {
		RespondError(c, http.StatusNotFound, "exercise_not_found", nil)
		return
	}

	explanation, err := h.chatgpt.ExplainGrammar(exercise, req.Answer)
	if err != nil {
		h.log.Error("Explain generation failed", "error", err, "exercise_id", req.ExerciseID)
		RespondError(c, http.StatusBadGateway, "explain_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"exercise_id": req.ExerciseID,
		"explanation": explanation,
	})
}
