package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/kapp/internal/config"
	"github.com/example/kapp/internal/logger"
	"github.com/example/kapp/internal/srs"
	"github.com/example/kapp/pkg/models"
)

// countStore serves a fixed due count for one item kind
type countStore struct {
	kind models.ItemKind
	due  int
}

func (s *countStore) Kind() models.ItemKind { return s.kind }

func (s *countStore) ItemExists(itemID int64) (bool, error) { return false, nil }

func (s *countStore) ApplyReview(userID, itemID int64, apply func(*models.ItemProgress) (*models.ReviewRecord, error)) (*models.ItemProgress, error) {
	return nil, nil
}

func (s *countStore) DueStates(userID int64, now time.Time, limit int, scope string) ([]models.ItemProgress, error) {
	return nil, nil
}

func (s *countStore) CountDue(userID int64, now time.Time, scope string) (int, error) {
	return s.due, nil
}

func (s *countStore) NewItemIDs(userID int64, limit int, scope string) ([]int64, error) {
	return nil, nil
}

type recordingNotifier struct {
	calls     int
	vocab     int
	exercises int
	err       error
}

func (n *recordingNotifier) SendDueReminder(vocabularyDue, exercisesDue int) error {
	if n.err != nil {
		return n.err
	}
	n.calls++
	n.vocab = vocabularyDue
	n.exercises = exercisesDue
	return nil
}

func newTestScheduler(t *testing.T, vocabDue, exerciseDue int, notifier Notifier) *Scheduler {
	t.Helper()
	log, err := logger.New("release")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	cfg := &config.Config{
		NotificationStartHour: 9,
		NotificationEndHour:   22,
		CachePruneDays:        30,
	}
	reviews := srs.NewService(
		&countStore{kind: models.ItemKindVocabulary, due: vocabDue},
		&countStore{kind: models.ItemKindExercise, due: exerciseDue},
	)
	return New(cfg, log, reviews, notifier)
}

func TestRemindSendsWithinWindow(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, 7, 3, notifier)

	s.remind(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	if notifier.calls != 1 {
		t.Fatalf("expected 1 reminder, got %d", notifier.calls)
	}
	if notifier.vocab != 7 || notifier.exercises != 3 {
		t.Errorf("expected counts 7/3, got %d/%d", notifier.vocab, notifier.exercises)
	}
}

func TestRemindSkipsOutsideWindow(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, 7, 3, notifier)

	s.remind(time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC))
	s.remind(time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC))

	if notifier.calls != 0 {
		t.Fatalf("expected no reminders outside the window, got %d", notifier.calls)
	}
}

func TestRemindAtMostOncePerDay(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, 7, 3, notifier)

	s.remind(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	s.remind(time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC))
	s.remind(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	if notifier.calls != 1 {
		t.Fatalf("expected 1 reminder for the day, got %d", notifier.calls)
	}

	// A new day sends again
	s.remind(time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC))
	if notifier.calls != 2 {
		t.Fatalf("expected a reminder on the next day, got %d total", notifier.calls)
	}
}

func TestRemindSkipsWhenNothingDue(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, 0, 0, notifier)

	s.remind(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	if notifier.calls != 0 {
		t.Fatalf("expected no reminder with nothing due, got %d", notifier.calls)
	}
}

func TestRemindRetriesAfterSendFailure(t *testing.T) {
	notifier := &recordingNotifier{err: os.ErrDeadlineExceeded}
	s := newTestScheduler(t, 7, 3, notifier)

	s.remind(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	if notifier.calls != 0 {
		t.Fatalf("expected failed send to record nothing, got %d", notifier.calls)
	}

	// A failed send must not count as today's reminder
	notifier.err = nil
	s.remind(time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC))
	if notifier.calls != 1 {
		t.Fatalf("expected retry to send, got %d", notifier.calls)
	}
}

func TestPruneDirRemovesOnlyOldFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.mp3")
	freshPath := filepath.Join(dir, "fresh.mp3")
	for _, path := range []string{oldPath, freshPath} {
		if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
	}
	oldTime := time.Now().AddDate(0, 0, -60)
	if err := os.Chtimes(oldPath, oldTime, oldTime); err != nil {
		t.Fatalf("failed to age file: %v", err)
	}

	removed, err := pruneDir(dir, time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("pruneDir failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 file removed, got %d", removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expected old file to be removed")
	}
	if _, err := os.Stat(freshPath); err != nil {
		t.Error("expected fresh file to survive")
	}
}

func TestPruneDirMissingDirectory(t *testing.T) {
	t.Parallel()

	removed, err := pruneDir(filepath.Join(t.TempDir(), "does-not-exist"), time.Now())
	if err != nil {
		t.Fatalf("expected missing directory to be ignored, got %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed, got %d", removed)
	}
}
