package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"strokeclash/internal/database"
	"strokeclash/internal/models"
)

// ProgressRepository handles per-(user, character) spaced-repetition state
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get retrieves progress for one (user, character) pair, nil when the user
// has never attempted the character
func (r *ProgressRepository) Get(userID, characterID int64) (*models.UserProgress, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, character_id, accuracy_history_json, total_attempts,
		       streak, mastery_level, last_practiced_at, next_review_at
		FROM user_progress
		WHERE user_id = ? AND character_id = ?
	`, userID, characterID)

	progress, err := scanProgress(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// Save upserts the full progress record keyed by (user, character)
func (r *ProgressRepository) Save(progress *models.UserProgress) error {
	historyJSON, err := json.Marshal(progress.AccuracyHistory)
	if err != nil {
		return fmt.Errorf("failed to encode accuracy history: %w", err)
	}

	return r.db.Upsert("user_progress",
		[]string{"user_id", "character_id", "accuracy_history_json", "total_attempts",
			"streak", "mastery_level", "last_practiced_at", "next_review_at"},
		[]string{"user_id", "character_id"},
		[]string{"accuracy_history_json", "total_attempts", "streak", "mastery_level",
			"last_practiced_at", "next_review_at"},
		progress.UserID,
		progress.CharacterID,
		string(historyJSON),
		progress.TotalAttempts,
		progress.Streak,
		progress.MasteryLevel,
		progress.LastPracticedAt,
		progress.NextReviewAt,
	)
}

// GetAllForUser retrieves every progress record for a user
func (r *ProgressRepository) GetAllForUser(userID int64) ([]models.UserProgress, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, character_id, accuracy_history_json, total_attempts,
		       streak, mastery_level, last_practiced_at, next_review_at
		FROM user_progress
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.UserProgress
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *progress)
	}

	return records, rows.Err()
}

// CountDue returns how many of the user's characters are due for review
func (r *ProgressRepository) CountDue(userID int64, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM user_progress
		WHERE user_id = ? AND next_review_at IS NOT NULL AND next_review_at <= ?
	`, userID, now).Scan(&count)
	return count, err
}

type progressScanner interface {
	Scan(...interface{}) error
}

func scanProgress(scanner progressScanner) (*models.UserProgress, error) {
	progress := &models.UserProgress{}
	var historyJSON string
	var lastPracticed, nextReview sql.NullTime

	err := scanner.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.CharacterID,
		&historyJSON,
		&progress.TotalAttempts,
		&progress.Streak,
		&progress.MasteryLevel,
		&lastPracticed,
		&nextReview,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(historyJSON), &progress.AccuracyHistory); err != nil {
		return nil, fmt.Errorf("failed to decode accuracy history: %w", err)
	}
	if lastPracticed.Valid {
		progress.LastPracticedAt = lastPracticed.Time
	}
	if nextReview.Valid {
		progress.NextReviewAt = nextReview.Time
	}

	return progress, nil
}
