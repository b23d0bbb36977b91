// Package scheduler runs the background jobs: the daily due-review
// reminder and cache cleanup.
package scheduler

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/kapp/internal/config"
	"github.com/example/kapp/internal/logger"
	"github.com/example/kapp/internal/srs"
	"github.com/example/kapp/pkg/models"
)

// The app tracks a single local profile
const reminderUserID int64 = 1

// Notifier delivers a due-review reminder
type Notifier interface {
	SendDueReminder(vocabularyDue, exercisesDue int) error
}

// Scheduler manages the application's scheduled tasks
type Scheduler struct {
	scheduler *gocron.Scheduler
	log       *logger.Logger
	cfg       *config.Config
	reviews   *srs.Service
	notifier  Notifier

	mu       sync.Mutex
	lastSent string // day of the last reminder, "2006-01-02"
}

// New creates a scheduler instance
func New(cfg *config.Config, log *logger.Logger, reviews *srs.Service, notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		log:       log.With("component", "scheduler"),
		cfg:       cfg,
		reviews:   reviews,
		notifier:  notifier,
	}
}

// Start registers all jobs and begins running them
func (s *Scheduler) Start() {
	if s.notifier != nil {
		if _, err := s.scheduler.Every(1).Hour().Do(s.checkAndSendReminder); err != nil {
			s.log.Error("failed to schedule reminder job", "error", err)
		}
	}
	if _, err := s.scheduler.Every(1).Day().At("03:30").Do(s.pruneCaches); err != nil {
		s.log.Error("failed to schedule cache prune job", "error", err)
	}
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) checkAndSendReminder() {
	s.remind(time.Now().UTC())
}

// remind sends at most one reminder per day, within the configured
// notification window, and only when something is actually due
func (s *Scheduler) remind(now time.Time) {
	hour := now.Hour()
	if hour < s.cfg.NotificationStartHour || hour > s.cfg.NotificationEndHour {
		s.log.Debug("outside notification hours, skipping reminder",
			"hour", hour,
			"start", s.cfg.NotificationStartHour,
			"end", s.cfg.NotificationEndHour)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := now.Format("2006-01-02")
	if s.lastSent == today {
		return
	}

	vocabularyDue, err := s.reviews.DueCount(models.ItemKindVocabulary, reminderUserID, now)
	if err != nil {
		s.log.Error("failed to count due vocabulary", "error", err)
		return
	}
	exercisesDue, err := s.reviews.DueCount(models.ItemKindExercise, reminderUserID, now)
	if err != nil {
		s.log.Error("failed to count due exercises", "error", err)
		return
	}
	if vocabularyDue == 0 && exercisesDue == 0 {
		s.log.Debug("nothing due, skipping reminder")
		return
	}

	if err := s.notifier.SendDueReminder(vocabularyDue, exercisesDue); err != nil {
		s.log.Error("failed to send due reminder", "error", err)
		return
	}
	s.lastSent = today
	s.log.Info("due reminder sent",
		"vocabulary_due", vocabularyDue,
		"exercises_due", exercisesDue)
}

func (s *Scheduler) pruneCaches() {
	if s.cfg.CachePruneDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -s.cfg.CachePruneDays)
	for _, dir := range []string{s.cfg.AudioCacheDir, s.cfg.LLMCacheDir} {
		if dir == "" {
			continue
		}
		removed, err := pruneDir(dir, cutoff)
		if err != nil {
			s.log.Error("failed to prune cache", "dir", dir, "error", err)
			continue
		}
		if removed > 0 {
			s.log.Info("cache pruned", "dir", dir, "removed", removed)
		}
	}
}

// pruneDir removes regular files modified before cutoff. A missing
// directory is not an error.
func pruneDir(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
