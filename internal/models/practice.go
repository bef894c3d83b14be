package models

import "time"

// PracticeSession groups a sequence of attempts for one sitting
type PracticeSession struct {
	ID              string     `json:"id"`
	UserID          int64      `json:"userId"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	OverallAccuracy float64    `json:"overallAccuracy"`
	TotalTimeMs     int64      `json:"totalTimeMs"`
	Completed       bool       `json:"completed"`
}

// PracticeAttempt is one scored attempt at one character within one exercise.
// The row is created when the first stroke is drawn and upserted as strokes
// accumulate; Completed marks the attempt as finalized.
type PracticeAttempt struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"sessionId"`
	UserID        int64     `json:"userId"`
	ExerciseID    int64     `json:"exerciseId"`
	CharacterID   int64     `json:"characterId"`
	AttemptNumber int       `json:"attemptNumber"`
	Strokes       []Stroke  `json:"strokes,omitempty"`
	Accuracy      float64   `json:"accuracy"`
	TimeSpentMs   int64     `json:"timeSpentMs"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AttemptSummary is a recent-history view of an attempt for progress reports
type AttemptSummary struct {
	CharacterID int64     `json:"characterId"`
	Traditional string    `json:"traditional"`
	Accuracy    float64   `json:"accuracy"`
	TimeSpentMs int64     `json:"timeSpentMs"`
	AttemptedAt time.Time `json:"attemptedAt"`
}
