// Package srs implements the spaced-repetition scheduler. Each completed
// attempt produces a deterministic update to a learner's per-character
// progress: accuracy history, streak, mastery level, and next review time.
package srs

import (
	"math"
	"time"

	"strokeclash/internal/models"
)

const (
	// HistoryWindow caps the retained accuracy history; older entries drop off
	HistoryWindow = 10

	// StreakThreshold is the accuracy an attempt needs to extend the streak
	StreakThreshold = 80.0

	// MaxBackoffDays caps the exponential review interval
	MaxBackoffDays = 30

	// MaxMasteryLevel is the top of the mastery ladder
	MaxMasteryLevel = 5
)

// masteryBracket is one row of the mastery lookup, evaluated top-down
type masteryBracket struct {
	minAverage float64
	minStreak  int
	level      int
}

var masteryBrackets = []masteryBracket{
	{95, 5, 5},
	{90, 4, 4},
	{85, 3, 3},
	{75, 2, 2},
	{60, 1, 1},
}

// Apply records one completed attempt on the progress record and returns the
// updated record. The input is not mutated.
func Apply(progress models.UserProgress, accuracy float64, now time.Time) models.UserProgress {
	history := append(append([]float64(nil), progress.AccuracyHistory...), accuracy)
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	progress.AccuracyHistory = history
	progress.TotalAttempts++

	if accuracy >= StreakThreshold {
		progress.Streak++
	} else {
		progress.Streak = 0
	}

	average := progress.AverageAccuracy()
	progress.MasteryLevel = MasteryLevel(average, progress.Streak)
	progress.LastPracticedAt = now
	progress.NextReviewAt = now.Add(NextReviewDelay(average, progress.Streak))

	return progress
}

// NextReviewDelay computes how long to wait before the next review. Weak
// recall reviews within the day; strong recall backs off exponentially with
// the streak, capped at 30 days.
func NextReviewDelay(averageAccuracy float64, streak int) time.Duration {
	day := 24 * time.Hour
	switch {
	case averageAccuracy < 60:
		return day / 2
	case averageAccuracy < 80:
		return day
	default:
		backoff := math.Min(math.Pow(2, float64(streak)), MaxBackoffDays)
		return time.Duration(backoff * float64(day))
	}
}

// MasteryLevel maps (average accuracy, streak) to a 0..5 level. The first
// matching bracket wins.
func MasteryLevel(averageAccuracy float64, streak int) int {
	for _, b := range masteryBrackets {
		if averageAccuracy >= b.minAverage && streak >= b.minStreak {
			return b.level
		}
	}
	return 0
}
