package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/kapp/internal/ai"
	"github.com/example/kapp/internal/config"
	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/internal/handlers"
	"github.com/example/kapp/internal/logger"
	"github.com/example/kapp/internal/notify"
	"github.com/example/kapp/internal/scheduler"
	"github.com/example/kapp/internal/server"
	"github.com/example/kapp/internal/srs"
)

func main() {
	// Config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Logger
	log, err := logger.New(cfg.Mode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database
	if err := database.Connect(cfg); err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Repositories
	courseRepo := database.NewCourseRepository()
	lessonRepo := database.NewLessonRepository()
	vocabRepo := database.NewVocabularyRepository()
	progressRepo := database.NewProgressRepository()
	settingsRepo := database.NewSettingsRepository()
	vocabSRS := database.NewVocabularySRSRepository()
	exerciseSRS := database.NewExerciseSRSRepository()

	// Services
	reviews := srs.NewService(vocabSRS, exerciseSRS)

	var chatgpt *ai.ChatGPT
	if cfg.LLMEnabled {
		chatgpt, err = ai.New(cfg.OpenAIKey, cfg.OpenAIModel, cfg.LLMCacheDir)
		if err != nil {
			log.Warn("Grammar explanations disabled", "error", err)
			chatgpt = nil
		}
	}

	// Router
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.RouterConfig{
		Log:               log,
		CourseHandler:     handlers.NewCourseHandler(log, courseRepo, lessonRepo),
		LessonHandler:     handlers.NewLessonHandler(log, lessonRepo, progressRepo, reviews),
		ReviewHandler:     handlers.NewReviewHandler(log, reviews, vocabSRS, exerciseSRS, vocabRepo, lessonRepo),
		VocabularyHandler: handlers.NewVocabularyHandler(log, vocabRepo, vocabSRS),
		ProgressHandler:   handlers.NewProgressHandler(log, progressRepo),
		WeaknessHandler:   handlers.NewWeaknessHandler(log, cfg.WeaknessReviewEnabled, vocabSRS, exerciseSRS, vocabRepo, lessonRepo),
		SettingsHandler:   handlers.NewSettingsHandler(log, settingsRepo),
		AudioHandler:      handlers.NewAudioHandler(log, cfg.AudioCacheDir),
		ExplainHandler:    handlers.NewExplainHandler(log, chatgpt, lessonRepo),
		ExportHandler:     handlers.NewExportHandler(log),
	})

	// Background jobs
	var notifier scheduler.Notifier
	if cfg.TelegramConfigured() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Warn("Telegram reminders disabled", "error", err)
		} else {
			notifier = tg
		}
	}
	jobs := scheduler.New(cfg, log, reviews, notifier)
	jobs.Start()
	defer jobs.Stop()

	// HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		log.Info("Server listening", "port", cfg.Port, "mode", cfg.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
