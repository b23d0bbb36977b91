// Package server assembles the HTTP router and its middleware.
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/handlers"
	"github.com/example/kapp/internal/logger"
)

type RouterConfig struct {
	Log               *logger.Logger
	CourseHandler     *handlers.CourseHandler
	LessonHandler     *handlers.LessonHandler
	ReviewHandler     *handlers.ReviewHandler
	VocabularyHandler *handlers.VocabularyHandler
	ProgressHandler   *handlers.ProgressHandler
	WeaknessHandler   *handlers.WeaknessHandler
	SettingsHandler   *handlers.SettingsHandler
	AudioHandler      *handlers.AudioHandler
	ExplainHandler    *handlers.ExplainHandler
	ExportHandler     *handlers.ExportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(cfg.Log))
	router.Use(CORS())

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Courses
		api.GET("/courses", cfg.CourseHandler.ListCourses)
		api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
		api.GET("/units/:id/lessons", cfg.CourseHandler.ListUnitLessons)

		// Lessons
		api.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
		api.POST("/lessons/:id/start", cfg.LessonHandler.StartLesson)
		api.POST("/lessons/:id/complete", cfg.LessonHandler.CompleteLesson)

		// Exercises
		api.POST("/exercises/:id/submit", cfg.LessonHandler.SubmitExercise)
		api.GET("/exercises/due", cfg.ReviewHandler.DueExercises)
		api.POST("/exercises/:id/review", cfg.ReviewHandler.ReviewExercise)

		// Vocabulary
		api.GET("/vocabulary", cfg.VocabularyHandler.List)
		api.GET("/vocabulary/categories", cfg.VocabularyHandler.Categories)
		api.GET("/vocabulary/due", cfg.ReviewHandler.DueVocabulary)
		api.GET("/vocabulary/:id", cfg.VocabularyHandler.Get)
		api.POST("/vocabulary/:id/review", cfg.ReviewHandler.ReviewVocabulary)

		// Progress
		api.GET("/progress", cfg.ProgressHandler.Summary)
		api.GET("/progress/recent", cfg.ProgressHandler.Recent)
		api.GET("/progress/stats", cfg.ReviewHandler.Stats)

		// Reviews
		api.GET("/srs/preview", cfg.ReviewHandler.Preview)
		api.GET("/reviews/history", cfg.ReviewHandler.History)
		api.GET("/review/weaknesses", cfg.WeaknessHandler.WeakItems)

		// Settings
		api.GET("/settings", cfg.SettingsHandler.Get)
		api.PUT("/settings", cfg.SettingsHandler.Update)

		// Extras
		api.POST("/llm/explain", cfg.ExplainHandler.Explain)
		api.GET("/audio/:name", cfg.AudioHandler.Serve)
		api.GET("/stats/export", cfg.ExportHandler.ExportReviews)
	}

	return router
}
