package models

import "time"

// UserProgress tracks spaced-repetition state for one (user, character) pair.
// AccuracyHistory keeps the most recent attempts only; MasteryLevel is always
// derived from (average accuracy, streak) and never set directly.
type UserProgress struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	CharacterID     int64     `json:"characterId"`
	AccuracyHistory []float64 `json:"accuracyHistory"`
	TotalAttempts   int       `json:"totalAttempts"`
	Streak          int       `json:"streak"`
	MasteryLevel    int       `json:"masteryLevel"`
	LastPracticedAt time.Time `json:"lastPracticedAt"`
	NextReviewAt    time.Time `json:"nextReviewAt"`
}

// AverageAccuracy returns the mean of the retained accuracy history
func (p *UserProgress) AverageAccuracy() float64 {
	if len(p.AccuracyHistory) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range p.AccuracyHistory {
		sum += a
	}
	return sum / float64(len(p.AccuracyHistory))
}

// StrugglingCharacter is a character the learner keeps missing
type StrugglingCharacter struct {
	CharacterID     int64   `json:"characterId"`
	Traditional     string  `json:"traditional"`
	Jyutping        string  `json:"jyutping"`
	AverageAccuracy float64 `json:"averageAccuracy"`
	TotalAttempts   int     `json:"totalAttempts"`
}
