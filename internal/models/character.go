package models

import "time"

// Character is a reference character the learner practices. Rows are seeded
// at startup and read-only at runtime.
type Character struct {
	ID            int64     `json:"id"`
	Traditional   string    `json:"traditional"`
	Simplified    string    `json:"simplified,omitempty"`
	Jyutping      string    `json:"jyutping"`
	English       string    `json:"english"`
	StrokeCount   int       `json:"strokeCount"`
	FrequencyRank int       `json:"frequencyRank,omitempty"`
	Difficulty    int       `json:"difficulty"`
	CreatedAt     time.Time `json:"-"`
}

// ExerciseKind distinguishes single-character drills from phrase exercises
type ExerciseKind string

const (
	ExerciseCharacter ExerciseKind = "character"
	ExercisePhrase    ExerciseKind = "phrase"
)

// Exercise groups one or more characters into a practice unit. A phrase
// exercise orders at least one character.
type Exercise struct {
	ID           int64        `json:"id"`
	Kind         ExerciseKind `json:"kind"`
	Title        string       `json:"title"`
	Difficulty   int          `json:"difficulty"`
	TotalStrokes int          `json:"totalStrokes"`
	Position     int          `json:"position"`
	Characters   []Character  `json:"characters"`
	CreatedAt    time.Time    `json:"-"`
}
