package srs

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/example/kapp/pkg/models"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScheduleRejectsInvalidQuality(t *testing.T) {
	t.Parallel()

	for _, q := range []int{-100, -1, 6, 7, 100} {
		state := models.NewSchedulingState()
		got, err := Schedule(state, q, testNow)
		if !errors.Is(err, ErrInvalidQuality) {
			t.Errorf("quality %d: expected ErrInvalidQuality, got %v", q, err)
		}
		if got.Repetitions != state.Repetitions || got.Interval != state.Interval {
			t.Errorf("quality %d: state mutated on invalid input", q)
		}
		if got.NextReviewDate != nil || got.LastReviewedAt != nil {
			t.Errorf("quality %d: review dates set on invalid input", q)
		}
	}
}

func TestScheduleFirstSuccess(t *testing.T) {
	t.Parallel()

	state := models.NewSchedulingState()
	got, err := Schedule(state, QualityCorrectHesitation, testNow)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if got.Repetitions != 1 {
		t.Errorf("expected 1 repetition, got %d", got.Repetitions)
	}
	if got.Interval != 1 {
		t.Errorf("expected interval 1, got %d", got.Interval)
	}
	if !almostEqual(got.EaseFactor, 2.5) {
		t.Errorf("expected ease factor 2.5 after quality 4, got %f", got.EaseFactor)
	}

	wantNext := testNow.AddDate(0, 0, 1)
	if got.NextReviewDate == nil || !got.NextReviewDate.Equal(wantNext) {
		t.Errorf("expected next review %v, got %v", wantNext, got.NextReviewDate)
	}
	if got.LastReviewedAt == nil || !got.LastReviewedAt.Equal(testNow) {
		t.Errorf("expected last reviewed %v, got %v", testNow, got.LastReviewedAt)
	}
}

func TestScheduleSecondSuccess(t *testing.T) {
	t.Parallel()

	state := models.SchedulingState{Interval: 1, Repetitions: 1, EaseFactor: 2.5}
	got, err := Schedule(state, QualityCorrectHesitation, testNow)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if got.Repetitions != 2 {
		t.Errorf("expected 2 repetitions, got %d", got.Repetitions)
	}
	if got.Interval != SecondInterval {
		t.Errorf("expected interval %d, got %d", SecondInterval, got.Interval)
	}
}

func TestScheduleLaterSuccessGrowsByEaseFactor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		interval     int
		repetitions  int
		easeFactor   float64
		wantInterval int
	}{
		{6, 2, 2.5, 15},  // round(6 * 2.5)
		{6, 2, 2.6, 16},  // round(15.6)
		{15, 3, 2.5, 38}, // round(37.5)
		{10, 5, 1.3, 13},
		{1, 2, 1.3, 1}, // round(1.3) stays at 1
	}

	for _, tc := range tests {
		state := models.SchedulingState{Interval: tc.interval, Repetitions: tc.repetitions, EaseFactor: tc.easeFactor}
		got, err := Schedule(state, QualityCorrectHesitation, testNow)
		if err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
		if got.Interval != tc.wantInterval {
			t.Errorf("interval %d × ef %.2f: expected %d, got %d",
				tc.interval, tc.easeFactor, tc.wantInterval, got.Interval)
		}
	}
}

func TestScheduleEaseFactorAdjustments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality int
		wantEF  float64
	}{
		{QualityPerfect, 2.6},           // +0.1
		{QualityCorrectHesitation, 2.5}, // unchanged
		{QualityCorrectDifficult, 2.36}, // -0.14
	}

	for _, tc := range tests {
		state := models.SchedulingState{Interval: 6, Repetitions: 2, EaseFactor: 2.5}
		got, err := Schedule(state, tc.quality, testNow)
		if err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
		if !almostEqual(got.EaseFactor, tc.wantEF) {
			t.Errorf("quality %d: expected ease factor %f, got %f", tc.quality, tc.wantEF, got.EaseFactor)
		}
	}
}

func TestScheduleEaseFactorNeverBelowFloor(t *testing.T) {
	t.Parallel()

	// Repeated barely-passing reviews push the ease factor toward the
	// floor but never through it
	state := models.NewSchedulingState()
	var err error
	for i := 0; i < 20; i++ {
		state, err = Schedule(state, QualityCorrectDifficult, testNow)
		if err != nil {
			t.Fatalf("Schedule failed on pass %d: %v", i, err)
		}
		if state.EaseFactor < models.MinEaseFactor {
			t.Fatalf("ease factor %f dropped below %f on pass %d", state.EaseFactor, models.MinEaseFactor, i)
		}
	}
	if !almostEqual(state.EaseFactor, models.MinEaseFactor) {
		t.Errorf("expected ease factor to settle at %f, got %f", models.MinEaseFactor, state.EaseFactor)
	}
}

func TestScheduleFailureResets(t *testing.T) {
	t.Parallel()

	for _, q := range []int{QualityBlackout, QualityIncorrect, QualityIncorrectFamiliar} {
		state := models.SchedulingState{Interval: 38, Repetitions: 4, EaseFactor: 2.5}
		got, err := Schedule(state, q, testNow)
		if err != nil {
			t.Fatalf("Schedule failed for quality %d: %v", q, err)
		}

		if got.Repetitions != 0 {
			t.Errorf("quality %d: expected repetitions reset to 0, got %d", q, got.Repetitions)
		}
		if got.Interval != 1 {
			t.Errorf("quality %d: expected interval reset to 1, got %d", q, got.Interval)
		}
		if !almostEqual(got.EaseFactor, 2.3) {
			t.Errorf("quality %d: expected ease factor 2.3, got %f", q, got.EaseFactor)
		}

		wantNext := testNow.AddDate(0, 0, 1)
		if got.NextReviewDate == nil || !got.NextReviewDate.Equal(wantNext) {
			t.Errorf("quality %d: expected next review %v, got %v", q, wantNext, got.NextReviewDate)
		}
	}
}

func TestScheduleFailurePenaltyRespectsFloor(t *testing.T) {
	t.Parallel()

	state := models.SchedulingState{Interval: 6, Repetitions: 2, EaseFactor: 1.4}
	got, err := Schedule(state, QualityBlackout, testNow)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if !almostEqual(got.EaseFactor, models.MinEaseFactor) {
		t.Errorf("expected ease factor clamped to %f, got %f", models.MinEaseFactor, got.EaseFactor)
	}
}

func TestScheduleLiftsDegenerateEaseFactor(t *testing.T) {
	t.Parallel()

	// A stored ease factor below the floor behaves as the floor
	state := models.SchedulingState{Interval: 10, Repetitions: 3, EaseFactor: 0.9}
	got, err := Schedule(state, QualityPerfect, testNow)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if got.Interval != 13 { // round(10 * 1.3)
		t.Errorf("expected interval 13 from lifted ease factor, got %d", got.Interval)
	}
	if !almostEqual(got.EaseFactor, 1.4) { // 1.3 + 0.1
		t.Errorf("expected ease factor 1.4, got %f", got.EaseFactor)
	}
}

func TestScheduleNextReviewAlwaysInFuture(t *testing.T) {
	t.Parallel()

	for q := QualityBlackout; q <= QualityPerfect; q++ {
		state := models.SchedulingState{Interval: 15, Repetitions: 3, EaseFactor: 2.0}
		got, err := Schedule(state, q, testNow)
		if err != nil {
			t.Fatalf("Schedule failed for quality %d: %v", q, err)
		}
		if got.Interval < 1 {
			t.Errorf("quality %d: interval %d below 1", q, got.Interval)
		}
		if !got.NextReviewDate.After(testNow) {
			t.Errorf("quality %d: next review %v not after %v", q, got.NextReviewDate, testNow)
		}
	}
}

func TestScheduleDeterministic(t *testing.T) {
	t.Parallel()

	state := models.SchedulingState{Interval: 6, Repetitions: 2, EaseFactor: 2.18}
	first, err := Schedule(state, QualityCorrectHesitation, testNow)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	second, err := Schedule(state, QualityCorrectHesitation, testNow)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if first.Interval != second.Interval || first.Repetitions != second.Repetitions ||
		first.EaseFactor != second.EaseFactor || !first.NextReviewDate.Equal(*second.NextReviewDate) {
		t.Errorf("identical inputs produced different outputs: %+v vs %+v", first, second)
	}
}

// A fresh item rated 4 then 2: one success, then a failure that resets the
// streak but keeps the penalized ease factor.
func TestScheduleSuccessThenFailure(t *testing.T) {
	t.Parallel()

	state := models.NewSchedulingState()

	state, err := Schedule(state, QualityCorrectHesitation, testNow)
	if err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if state.Repetitions != 1 || state.Interval != 1 || !almostEqual(state.EaseFactor, 2.5) {
		t.Fatalf("after quality 4: expected reps=1 interval=1 ef=2.5, got reps=%d interval=%d ef=%f",
			state.Repetitions, state.Interval, state.EaseFactor)
	}

	later := testNow.AddDate(0, 0, 1)
	state, err = Schedule(state, QualityIncorrectFamiliar, later)
	if err != nil {
		t.Fatalf("second review failed: %v", err)
	}
	if state.Repetitions != 0 || state.Interval != 1 || !almostEqual(state.EaseFactor, 2.3) {
		t.Fatalf("after quality 2: expected reps=0 interval=1 ef=2.3, got reps=%d interval=%d ef=%f",
			state.Repetitions, state.Interval, state.EaseFactor)
	}
	wantNext := later.AddDate(0, 0, 1)
	if !state.NextReviewDate.Equal(wantNext) {
		t.Errorf("expected next review %v, got %v", wantNext, state.NextReviewDate)
	}
}

func TestEffectiveQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality int
		peeked  bool
		want    int
	}{
		{5, true, 3},
		{4, true, 3},
		{3, true, 3},
		{2, true, 2},
		{0, true, 0},
		{5, false, 5},
		{4, false, 4},
		{0, false, 0},
	}

	for _, tc := range tests {
		if got := EffectiveQuality(tc.quality, tc.peeked); got != tc.want {
			t.Errorf("EffectiveQuality(%d, %v) = %d, want %d", tc.quality, tc.peeked, got, tc.want)
		}
	}
}

// A peeked perfect answer must schedule exactly like an honest quality 3.
func TestPeekedReviewMatchesCappedQuality(t *testing.T) {
	t.Parallel()

	state := models.SchedulingState{Interval: 6, Repetitions: 2, EaseFactor: 2.5}

	peeked, err := Schedule(state, EffectiveQuality(QualityPerfect, true), testNow)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	honest, err := Schedule(state, QualityCorrectDifficult, testNow)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if peeked.Interval != honest.Interval || peeked.Repetitions != honest.Repetitions ||
		!almostEqual(peeked.EaseFactor, honest.EaseFactor) {
		t.Errorf("peeked quality 5 diverged from quality 3: %+v vs %+v", peeked, honest)
	}
}

func TestPreviewIntervals(t *testing.T) {
	t.Parallel()

	// Fresh item: every rating lands on a 1 day interval
	fresh := PreviewIntervals(models.NewSchedulingState(), testNow)
	for q := QualityBlackout; q <= QualityPerfect; q++ {
		if fresh[q] != 1 {
			t.Errorf("fresh state, quality %d: expected interval 1, got %d", q, fresh[q])
		}
	}

	// One success in: failures reset to 1, successes advance to the
	// second interval
	state := models.SchedulingState{Interval: 1, Repetitions: 1, EaseFactor: 2.5}
	preview := PreviewIntervals(state, testNow)
	for q := QualityBlackout; q < PassThreshold; q++ {
		if preview[q] != 1 {
			t.Errorf("quality %d: expected interval 1, got %d", q, preview[q])
		}
	}
	for q := PassThreshold; q <= QualityPerfect; q++ {
		if preview[q] != SecondInterval {
			t.Errorf("quality %d: expected interval %d, got %d", q, SecondInterval, preview[q])
		}
	}

	// Preview must not touch the input state
	if state.Repetitions != 1 || state.Interval != 1 || state.NextReviewDate != nil {
		t.Errorf("PreviewIntervals mutated its input: %+v", state)
	}
}
