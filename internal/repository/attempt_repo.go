package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"strokeclash/internal/database"
	"strokeclash/internal/models"
)

// AttemptRepository handles practice attempt database operations
type AttemptRepository struct {
	db *database.DB
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db *database.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Save upserts an attempt keyed by (session, exercise, character, attempt
// number). In-progress saves for the same attempt supersede each other, so
// the stored row always reflects the most recent client state.
func (r *AttemptRepository) Save(attempt *models.PracticeAttempt) error {
	strokesJSON, err := json.Marshal(attempt.Strokes)
	if err != nil {
		return fmt.Errorf("failed to encode strokes: %w", err)
	}

	return r.db.Upsert("practice_attempts",
		[]string{"session_id", "user_id", "exercise_id", "character_id", "attempt_number",
			"accuracy", "time_spent_ms", "stroke_count", "strokes_json", "completed", "updated_at"},
		[]string{"session_id", "exercise_id", "character_id", "attempt_number"},
		[]string{"accuracy", "time_spent_ms", "stroke_count", "strokes_json", "completed", "updated_at"},
		attempt.SessionID,
		attempt.UserID,
		attempt.ExerciseID,
		attempt.CharacterID,
		attempt.AttemptNumber,
		attempt.Accuracy,
		attempt.TimeSpentMs,
		len(attempt.Strokes),
		string(strokesJSON),
		attempt.Completed,
		time.Now(),
	)
}

// GetSessionAttempts retrieves all attempts for a session in creation order
func (r *AttemptRepository) GetSessionAttempts(sessionID string) ([]models.PracticeAttempt, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, user_id, exercise_id, character_id, attempt_number,
		       accuracy, time_spent_ms, strokes_json, completed, created_at, updated_at
		FROM practice_attempts
		WHERE session_id = ?
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.PracticeAttempt
	for rows.Next() {
		var attempt models.PracticeAttempt
		var strokesJSON string
		err := rows.Scan(
			&attempt.ID,
			&attempt.SessionID,
			&attempt.UserID,
			&attempt.ExerciseID,
			&attempt.CharacterID,
			&attempt.AttemptNumber,
			&attempt.Accuracy,
			&attempt.TimeSpentMs,
			&strokesJSON,
			&attempt.Completed,
			&attempt.CreatedAt,
			&attempt.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(strokesJSON), &attempt.Strokes); err != nil {
			return nil, fmt.Errorf("failed to decode strokes for attempt %d: %w", attempt.ID, err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// GetRecentByUser retrieves the most recent completed attempts for a user
// joined with the character they were drawn against
func (r *AttemptRepository) GetRecentByUser(userID int64, limit int) ([]models.AttemptSummary, error) {
	rows, err := r.db.Query(`
		SELECT a.character_id, c.traditional, a.accuracy, a.time_spent_ms, a.updated_at
		FROM practice_attempts a
		JOIN characters c ON c.id = a.character_id
		WHERE a.user_id = ? AND a.completed = ?
		ORDER BY a.updated_at DESC
		LIMIT ?
	`, userID, true, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.AttemptSummary
	for rows.Next() {
		var s models.AttemptSummary
		err := rows.Scan(&s.CharacterID, &s.Traditional, &s.Accuracy, &s.TimeSpentMs, &s.AttemptedAt)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetUserAggregates returns the completed attempt count and mean accuracy
// for a user
func (r *AttemptRepository) GetUserAggregates(userID int64) (int, float64, error) {
	var count int
	var average float64
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(accuracy), 0)
		FROM practice_attempts
		WHERE user_id = ? AND completed = ?
	`, userID, true).Scan(&count, &average)
	return count, average, err
}

// GetStrugglingCharacters returns characters whose completed-attempt average
// accuracy sits below the threshold with at least minAttempts tries
func (r *AttemptRepository) GetStrugglingCharacters(userID int64, maxAccuracy float64, minAttempts int) ([]models.StrugglingCharacter, error) {
	rows, err := r.db.Query(`
		SELECT a.character_id, c.traditional, c.jyutping, AVG(a.accuracy), COUNT(*)
		FROM practice_attempts a
		JOIN characters c ON c.id = a.character_id
		WHERE a.user_id = ? AND a.completed = ?
		GROUP BY a.character_id, c.traditional, c.jyutping
		HAVING COUNT(*) >= ? AND AVG(a.accuracy) < ?
		ORDER BY AVG(a.accuracy) ASC
	`, userID, true, minAttempts, maxAccuracy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var struggling []models.StrugglingCharacter
	for rows.Next() {
		var s models.StrugglingCharacter
		err := rows.Scan(&s.CharacterID, &s.Traditional, &s.Jyutping, &s.AverageAccuracy, &s.TotalAttempts)
		if err != nil {
			return nil, err
		}
		struggling = append(struggling, s)
	}

	return struggling, rows.Err()
}
