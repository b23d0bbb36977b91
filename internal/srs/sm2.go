// Package srs implements the spaced-repetition engine: a pure SM-2
// scheduler plus the review recorder and due selector that drive it. The
// same engine serves vocabulary items and lesson exercises.
package srs

import (
	"errors"
	"math"
	"time"

	"github.com/example/kapp/pkg/models"
)

// Quality ratings: the learner's self-assessed recall, 0 through 5
const (
	// Complete blackout, unable to recall
	QualityBlackout = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar = 2
	// Correct response but required significant effort
	QualityCorrectDifficult = 3
	// Correct response after some hesitation
	QualityCorrectHesitation = 4
	// Perfect response with no hesitation
	QualityPerfect = 5
)

const (
	// PassThreshold is the lowest quality that counts as a successful recall
	PassThreshold = QualityCorrectDifficult
	// FailureEasePenalty is subtracted from the ease factor on failure
	FailureEasePenalty = 0.2
	// SecondInterval is the gap in days after the second consecutive success
	SecondInterval = 6
	// PeekQualityCap is the highest quality a peeked answer may count as
	PeekQualityCap = QualityCorrectDifficult
)

// ErrInvalidQuality signals a rating outside 0..5. Bad input is never
// clamped; the only sanctioned clamp is the peek cap.
var ErrInvalidQuality = errors.New("quality must be an integer between 0 and 5")

// Schedule applies one review with the given quality to a scheduling state
// and returns the new state. It is a pure function: deterministic in
// (state, quality, now), no I/O, and the caller owns persistence.
//
// Failure (quality below 3) resets repetitions and the interval and knocks
// the ease factor down by a flat penalty. Success grows the interval: 1 day,
// then SecondInterval days, then the previous interval times the ease
// factor. The ease factor never drops below models.MinEaseFactor.
func Schedule(state models.SchedulingState, quality int, now time.Time) (models.SchedulingState, error) {
	if quality < QualityBlackout || quality > QualityPerfect {
		return state, ErrInvalidQuality
	}

	// Stored states from older data may sit below the floor; lift them
	// before computing
	if state.EaseFactor < models.MinEaseFactor {
		state.EaseFactor = models.MinEaseFactor
	}

	if quality < PassThreshold {
		state.Repetitions = 0
		state.Interval = 1
		state.EaseFactor -= FailureEasePenalty
		if state.EaseFactor < models.MinEaseFactor {
			state.EaseFactor = models.MinEaseFactor
		}
	} else {
		state.Repetitions++
		switch state.Repetitions {
		case 1:
			state.Interval = 1
		case 2:
			state.Interval = SecondInterval
		default:
			next := int(math.Round(float64(state.Interval) * state.EaseFactor))
			if next < 1 {
				next = 1
			}
			state.Interval = next
		}

		ef := state.EaseFactor + (0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02))
		if ef < models.MinEaseFactor {
			ef = models.MinEaseFactor
		}
		state.EaseFactor = ef
	}

	next := now.AddDate(0, 0, state.Interval)
	state.NextReviewDate = &next
	state.LastReviewedAt = &now
	return state, nil
}

// EffectiveQuality applies the peek cap: an answer the learner revealed
// before rating can never count above "correct with difficulty", so a peek
// cannot over-extend the schedule
func EffectiveQuality(quality int, peeked bool) int {
	if peeked && quality > PeekQualityCap {
		return PeekQualityCap
	}
	return quality
}

// PreviewIntervals returns the interval, in days, that each quality rating
// would produce from the given state. The UI uses this to label its rating
// buttons ("again in 1 day", "good: 6 days", ...).
func PreviewIntervals(state models.SchedulingState, now time.Time) map[int]int {
	preview := make(map[int]int, QualityPerfect+1)
	for q := QualityBlackout; q <= QualityPerfect; q++ {
		next, err := Schedule(state, q, now)
		if err != nil {
			continue
		}
		preview[q] = next.Interval
	}
	return preview
}
