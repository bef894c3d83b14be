package repository

import (
	"database/sql"
	"time"

	"strokeclash/internal/database"
	"strokeclash/internal/models"
)

// SessionRepository handles practice session database operations
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new practice session with the given id
func (r *SessionRepository) Create(id string, userID int64) (*models.PracticeSession, error) {
	_, err := r.db.Exec(`
		INSERT INTO practice_sessions (id, user_id)
		VALUES (?, ?)
	`, id, userID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a practice session, nil when not found
func (r *SessionRepository) GetByID(id string) (*models.PracticeSession, error) {
	session := &models.PracticeSession{}
	var completedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, user_id, started_at, completed_at, overall_accuracy, total_time_ms, completed
		FROM practice_sessions
		WHERE id = ?
	`, id).Scan(
		&session.ID,
		&session.UserID,
		&session.StartedAt,
		&completedAt,
		&session.OverallAccuracy,
		&session.TotalTimeMs,
		&session.Completed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}
	return session, nil
}

// Complete marks a session as finished and stores its aggregate results
func (r *SessionRepository) Complete(id string, overallAccuracy float64, totalTimeMs int64) error {
	_, err := r.db.Exec(`
		UPDATE practice_sessions
		SET completed_at = ?, overall_accuracy = ?, total_time_ms = ?, completed = ?
		WHERE id = ?
	`, time.Now(), overallAccuracy, totalTimeMs, true, id)
	return err
}

// AbandonStale marks incomplete sessions older than the cutoff as completed
// so the cleanup job can close out sessions the learner walked away from.
// Returns the number of sessions closed.
func (r *SessionRepository) AbandonStale(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE practice_sessions
		SET completed = ?, completed_at = ?
		WHERE completed = ? AND started_at < ?
	`, true, time.Now(), false, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
