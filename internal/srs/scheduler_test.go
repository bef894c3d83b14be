package srs

import (
	"testing"
	"time"

	"strokeclash/internal/models"
)

func TestApplySingleWeakAttempt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	result := Apply(models.UserProgress{}, 50, now)

	if result.Streak != 0 {
		t.Errorf("streak = %d, want 0", result.Streak)
	}
	if result.MasteryLevel != 0 {
		t.Errorf("mastery = %d, want 0", result.MasteryLevel)
	}
	if want := now.Add(12 * time.Hour); !result.NextReviewAt.Equal(want) {
		t.Errorf("next review = %v, want %v (half day)", result.NextReviewAt, want)
	}
	if result.NextReviewAt.Before(result.LastPracticedAt) {
		t.Error("next review must never precede last practiced")
	}
}

func TestApplyStreakSequence(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	progress := models.UserProgress{}
	for i := 0; i < 5; i++ {
		progress = Apply(progress, 90, now)
	}

	if progress.Streak != 5 {
		t.Errorf("streak = %d, want 5", progress.Streak)
	}
	if progress.TotalAttempts != 5 {
		t.Errorf("total attempts = %d, want 5", progress.TotalAttempts)
	}
	// avg=90, streak=5: falls through the 95/5 bracket to the 90/4 one
	if progress.MasteryLevel != 4 {
		t.Errorf("mastery = %d, want 4", progress.MasteryLevel)
	}
}

func TestApplyHistoryWindow(t *testing.T) {
	now := time.Now()

	progress := models.UserProgress{}
	for i := 0; i < 15; i++ {
		progress = Apply(progress, 70, now)
	}

	if len(progress.AccuracyHistory) != HistoryWindow {
		t.Errorf("history length = %d, want %d", len(progress.AccuracyHistory), HistoryWindow)
	}
	if progress.TotalAttempts != 15 {
		t.Errorf("total attempts = %d, want 15", progress.TotalAttempts)
	}
}

func TestApplyStreakResets(t *testing.T) {
	now := time.Now()

	progress := models.UserProgress{}
	progress = Apply(progress, 95, now)
	progress = Apply(progress, 95, now)
	progress = Apply(progress, 40, now)

	if progress.Streak != 0 {
		t.Errorf("streak after a miss = %d, want 0", progress.Streak)
	}
}

func TestMasteryLevel(t *testing.T) {
	tests := []struct {
		name    string
		average float64
		streak  int
		want    int
	}{
		{"top bracket boundary", 95, 5, 5},
		{"just under top average", 94.9, 5, 4},
		{"high average low streak", 99, 1, 1},
		{"level three", 85, 3, 3},
		{"level two", 75, 2, 2},
		{"level one", 60, 1, 1},
		{"below all brackets", 59.9, 10, 0},
		{"no streak", 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MasteryLevel(tt.average, tt.streak)
			if result != tt.want {
				t.Errorf("MasteryLevel(%v, %d) = %d, want %d", tt.average, tt.streak, result, tt.want)
			}
		})
	}
}

func TestNextReviewDelay(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name    string
		average float64
		streak  int
		want    time.Duration
	}{
		{"struggling reviews within the day", 50, 0, 12 * time.Hour},
		{"middling reviews daily", 70, 1, day},
		{"strong with no streak", 85, 0, day},
		{"streak of two doubles twice", 85, 2, 4 * day},
		{"backoff caps at thirty days", 95, 10, 30 * day},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NextReviewDelay(tt.average, tt.streak)
			if result != tt.want {
				t.Errorf("NextReviewDelay(%v, %d) = %v, want %v", tt.average, tt.streak, result, tt.want)
			}
		})
	}
}
