package database

import (
	"testing"
)

func TestStartLessonCreatesProgress(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	lessonID := seedLesson(t, "Greetings")

	progress, err := repo.StartLesson(1, lessonID, 5, repoTestNow)
	if err != nil {
		t.Fatalf("StartLesson failed: %v", err)
	}

	if !progress.IsStarted {
		t.Error("expected lesson marked started")
	}
	if progress.TotalExercises != 5 {
		t.Errorf("expected 5 total exercises, got %d", progress.TotalExercises)
	}
	if progress.StartedAt == nil || progress.LastActivityAt == nil {
		t.Error("expected started and activity timestamps set")
	}
	if progress.ID == 0 {
		t.Error("expected inserted row to get an id")
	}
}

func TestStartLessonKeepsCompletion(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	lessonID := seedLesson(t, "Numbers")

	if _, err := repo.StartLesson(1, lessonID, 4, repoTestNow); err != nil {
		t.Fatalf("StartLesson failed: %v", err)
	}
	if _, err := repo.CompleteLesson(1, lessonID, 85, 120, repoTestNow); err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}

	// Revisiting a finished lesson must not clear its completion
	progress, err := repo.StartLesson(1, lessonID, 4, repoTestNow.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if !progress.IsCompleted {
		t.Error("expected completion to survive a restart")
	}
	if progress.Score != 85 {
		t.Errorf("expected score preserved, got %f", progress.Score)
	}
}

func TestRecordExerciseResult(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	lessonID := seedLesson(t, "Food")

	// No explicit start: the row appears on the first answer
	progress, err := repo.RecordExerciseResult(1, lessonID, true, 3, repoTestNow)
	if err != nil {
		t.Fatalf("RecordExerciseResult failed: %v", err)
	}
	if progress.CompletedExercises != 1 {
		t.Errorf("expected 1 completed exercise, got %d", progress.CompletedExercises)
	}
	if !progress.IsStarted {
		t.Error("expected implicit start")
	}

	// Wrong answers refresh activity but don't advance the counter
	progress, err = repo.RecordExerciseResult(1, lessonID, false, 3, repoTestNow)
	if err != nil {
		t.Fatalf("RecordExerciseResult failed: %v", err)
	}
	if progress.CompletedExercises != 1 {
		t.Errorf("expected counter unchanged after wrong answer, got %d", progress.CompletedExercises)
	}

	// The counter never exceeds the lesson's exercise total
	for i := 0; i < 5; i++ {
		progress, err = repo.RecordExerciseResult(1, lessonID, true, 3, repoTestNow)
		if err != nil {
			t.Fatalf("RecordExerciseResult failed: %v", err)
		}
	}
	if progress.CompletedExercises != 3 {
		t.Errorf("expected counter capped at 3, got %d", progress.CompletedExercises)
	}
}

func TestCompleteLessonAccumulatesTime(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	lessonID := seedLesson(t, "Travel")

	if _, err := repo.CompleteLesson(1, lessonID, 70, 100, repoTestNow); err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}
	progress, err := repo.CompleteLesson(1, lessonID, 90, 50, repoTestNow.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}

	if !progress.IsCompleted {
		t.Error("expected lesson completed")
	}
	if progress.Score != 90 {
		t.Errorf("expected latest score 90, got %f", progress.Score)
	}
	if progress.TimeSpentSeconds != 150 {
		t.Errorf("expected accumulated time 150s, got %d", progress.TimeSpentSeconds)
	}
}

func TestSummary(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	first := seedLesson(t, "One")
	second := seedLesson(t, "Two")
	seedLesson(t, "Three")
	seedLesson(t, "Four")

	if _, err := repo.StartLesson(1, first, 2, repoTestNow); err != nil {
		t.Fatalf("StartLesson failed: %v", err)
	}
	if _, err := repo.CompleteLesson(1, first, 80, 60, repoTestNow); err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}
	if _, err := repo.StartLesson(1, second, 2, repoTestNow); err != nil {
		t.Fatalf("StartLesson failed: %v", err)
	}

	stats, err := repo.Summary(1)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if stats["total_lessons"] != 4 {
		t.Errorf("expected 4 total lessons, got %v", stats["total_lessons"])
	}
	if stats["lessons_started"] != 2 {
		t.Errorf("expected 2 started, got %v", stats["lessons_started"])
	}
	if stats["lessons_completed"] != 1 {
		t.Errorf("expected 1 completed, got %v", stats["lessons_completed"])
	}
	if percent, ok := stats["completion_percent"].(float64); !ok || percent != 25 {
		t.Errorf("expected 25%% completion, got %v", stats["completion_percent"])
	}
	if stats["total_time_seconds"] != 60 {
		t.Errorf("expected 60s study time, got %v", stats["total_time_seconds"])
	}
	if avg, ok := stats["average_score"].(float64); !ok || avg != 80 {
		t.Errorf("expected average score 80, got %v", stats["average_score"])
	}
}

func TestRecentNewestFirst(t *testing.T) {
	setupTestDB(t)
	repo := NewProgressRepository()
	older := seedLesson(t, "Older")
	newer := seedLesson(t, "Newer")

	if _, err := repo.StartLesson(1, older, 2, repoTestNow.AddDate(0, 0, -2)); err != nil {
		t.Fatalf("StartLesson failed: %v", err)
	}
	if _, err := repo.StartLesson(1, newer, 2, repoTestNow); err != nil {
		t.Fatalf("StartLesson failed: %v", err)
	}

	recent, err := repo.Recent(1, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent lessons, got %d", len(recent))
	}
	if recent[0].LessonTitle != "Newer" || recent[1].LessonTitle != "Older" {
		t.Errorf("expected newest first, got %q then %q", recent[0].LessonTitle, recent[1].LessonTitle)
	}

	times, err := repo.ActivityTimes(1)
	if err != nil {
		t.Fatalf("ActivityTimes failed: %v", err)
	}
	if len(times) != 2 || !times[0].After(times[1]) {
		t.Errorf("expected activity times newest first, got %v", times)
	}
}
