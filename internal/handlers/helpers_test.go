package handlers

import (
	"testing"
	"time"

	"github.com/example/kapp/internal/srs"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestResolveQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		req    reviewRequest
		want   int
		wantOK bool
	}{
		{"explicit quality", reviewRequest{Quality: intPtr(5)}, 5, true},
		{"quality zero is a real rating", reviewRequest{Quality: intPtr(0)}, 0, true},
		{"quality wins over correct", reviewRequest{Quality: intPtr(1), Correct: boolPtr(true)}, 1, true},
		{"correct true maps to pass", reviewRequest{Correct: boolPtr(true)}, srs.QualityCorrectHesitation, true},
		{"correct false maps to fail", reviewRequest{Correct: boolPtr(false)}, srs.QualityIncorrectFamiliar, true},
		{"neither field", reviewRequest{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.req.resolveQuality()
			if ok != tt.wantOK {
				t.Fatalf("resolveQuality() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("resolveQuality() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnswersMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		submitted string
		expected  string
		want      bool
	}{
		{"사과", "사과", true},
		{"  사과  ", "사과", true},
		{"Apple", "apple", true},
		{"apple", " APPLE ", true},
		{"배", "사과", false},
		{"", "사과", false},
	}

	for _, tt := range tests {
		if got := answersMatch(tt.submitted, tt.expected); got != tt.want {
			t.Errorf("answersMatch(%q, %q) = %v, want %v", tt.submitted, tt.expected, got, tt.want)
		}
	}
}

func TestStudyStreak(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2024, 3, 15+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		times []time.Time
		want  int
	}{
		{"no activity", nil, 0},
		{"today only", []time.Time{day(0, 9)}, 1},
		{"three consecutive days", []time.Time{day(0, 9), day(-1, 20), day(-2, 7)}, 3},
		{"yesterday keeps the streak alive", []time.Time{day(-1, 23), day(-2, 1)}, 2},
		{"gap before yesterday breaks it", []time.Time{day(-2, 10), day(-3, 10)}, 0},
		{"gap in the middle stops counting", []time.Time{day(0, 9), day(-1, 9), day(-3, 9)}, 2},
		{"several sessions on one day count once", []time.Time{day(0, 8), day(0, 12), day(0, 21)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := studyStreak(tt.times, now); got != tt.want {
				t.Errorf("studyStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStudyStreakNormalizesZones(t *testing.T) {
	t.Parallel()

	// 2024-03-15 23:30 KST is 14:30 UTC the same day
	seoul := time.FixedZone("KST", 9*60*60)
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	times := []time.Time{time.Date(2024, 3, 15, 23, 30, 0, 0, seoul)}

	if got := studyStreak(times, now); got != 1 {
		t.Errorf("studyStreak() = %d, want 1", got)
	}
}
