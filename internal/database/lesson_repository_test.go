package database

import (
	"testing"
)

func TestGetExercisesByLessonOrdered(t *testing.T) {
	setupTestDB(t)
	repo := NewLessonRepository()
	lessonID := seedLesson(t, "Ordering")

	second := seedExercise(t, lessonID, 2)
	first := seedExercise(t, lessonID, 1)

	exercises, err := repo.GetExercisesByLesson(lessonID)
	if err != nil {
		t.Fatalf("GetExercisesByLesson failed: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(exercises))
	}
	if exercises[0].ID != first || exercises[1].ID != second {
		t.Errorf("expected display order [%d %d], got [%d %d]",
			first, second, exercises[0].ID, exercises[1].ID)
	}

	count, err := repo.CountExercisesByLesson(lessonID)
	if err != nil {
		t.Fatalf("CountExercisesByLesson failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestGetExercisesByIDs(t *testing.T) {
	setupTestDB(t)
	repo := NewLessonRepository()
	lessonID := seedLesson(t, "Lookup")

	first := seedExercise(t, lessonID, 1)
	second := seedExercise(t, lessonID, 2)
	seedExercise(t, lessonID, 3)

	exercises, err := repo.GetExercisesByIDs([]int64{first, second})
	if err != nil {
		t.Fatalf("GetExercisesByIDs failed: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(exercises))
	}
	if _, ok := exercises[first]; !ok {
		t.Errorf("expected exercise %d in result", first)
	}

	empty, err := repo.GetExercisesByIDs(nil)
	if err != nil {
		t.Fatalf("GetExercisesByIDs with no ids failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty map for no ids, got %d entries", len(empty))
	}
}

func TestGetLessonByIDAbsent(t *testing.T) {
	setupTestDB(t)
	repo := NewLessonRepository()

	lesson, err := repo.GetLessonByID(12345)
	if err != nil {
		t.Fatalf("GetLessonByID failed: %v", err)
	}
	if lesson != nil {
		t.Errorf("expected nil for a missing lesson, got %+v", lesson)
	}
}
