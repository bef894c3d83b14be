package models

import "time"

// User identifies a learner by username. There is no password; the API uses
// find-or-create semantics keyed on the unique username.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserStats aggregates a learner's overall practice statistics
type UserStats struct {
	TotalAttempts      int     `json:"totalAttempts"`
	AverageAccuracy    float64 `json:"averageAccuracy"`
	CharactersLearned  int     `json:"charactersLearned"`
	MasteredCharacters int     `json:"masteredCharacters"`
	DueForReview       int     `json:"dueForReview"`
}
