package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"strokeclash/internal/database"
)

// BackupData is the complete database backup structure
type BackupData struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Users      []UserBackup      `json:"users"`
	Characters []CharacterBackup `json:"characters"`
	Exercises  []ExerciseBackup  `json:"exercises"`
	Sessions   []SessionBackup   `json:"sessions"`
	Attempts   []AttemptBackup   `json:"attempts"`
	Progress   []ProgressBackup  `json:"progress"`
}

// UserBackup is a user record for backup
type UserBackup struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CharacterBackup is a character record for backup
type CharacterBackup struct {
	ID            int64  `json:"id"`
	Traditional   string `json:"traditional"`
	Simplified    string `json:"simplified"`
	Jyutping      string `json:"jyutping"`
	English       string `json:"english"`
	StrokeCount   int    `json:"stroke_count"`
	FrequencyRank int    `json:"frequency_rank"`
	Difficulty    int    `json:"difficulty"`
}

// ExerciseBackup is an exercise with its ordered character links
type ExerciseBackup struct {
	ID           int64   `json:"id"`
	Kind         string  `json:"kind"`
	Title        string  `json:"title"`
	Difficulty   int     `json:"difficulty"`
	TotalStrokes int     `json:"total_strokes"`
	Position     int     `json:"position"`
	CharacterIDs []int64 `json:"character_ids"`
}

// SessionBackup is a practice session record for backup
type SessionBackup struct {
	ID              string     `json:"id"`
	UserID          int64      `json:"user_id"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	OverallAccuracy float64    `json:"overall_accuracy"`
	TotalTimeMs     int64      `json:"total_time_ms"`
	Completed       bool       `json:"completed"`
}

// AttemptBackup is a practice attempt record for backup
type AttemptBackup struct {
	SessionID     string    `json:"session_id"`
	UserID        int64     `json:"user_id"`
	ExerciseID    int64     `json:"exercise_id"`
	CharacterID   int64     `json:"character_id"`
	AttemptNumber int       `json:"attempt_number"`
	Accuracy      float64   `json:"accuracy"`
	TimeSpentMs   int64     `json:"time_spent_ms"`
	StrokeCount   int       `json:"stroke_count"`
	StrokesJSON   string    `json:"strokes_json"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProgressBackup is a user progress record for backup
type ProgressBackup struct {
	UserID          int64      `json:"user_id"`
	CharacterID     int64      `json:"character_id"`
	HistoryJSON     string     `json:"accuracy_history_json"`
	TotalAttempts   int        `json:"total_attempts"`
	Streak          int        `json:"streak"`
	MasteryLevel    int        `json:"mastery_level"`
	LastPracticedAt *time.Time `json:"last_practiced_at"`
	NextReviewAt    *time.Time `json:"next_review_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes the full database contents to a JSON file
func (s *BackupService) Export(outputPath string) error {
	backup := BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	var err error
	if backup.Users, err = s.exportUsers(); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if backup.Characters, err = s.exportCharacters(); err != nil {
		return fmt.Errorf("failed to export characters: %w", err)
	}
	if backup.Exercises, err = s.exportExercises(); err != nil {
		return fmt.Errorf("failed to export exercises: %w", err)
	}
	if backup.Sessions, err = s.exportSessions(); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	if backup.Attempts, err = s.exportAttempts(); err != nil {
		return fmt.Errorf("failed to export attempts: %w", err)
	}
	if backup.Progress, err = s.exportProgress(); err != nil {
		return fmt.Errorf("failed to export progress: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported %d users, %d characters, %d exercises, %d sessions, %d attempts, %d progress records",
		len(backup.Users), len(backup.Characters), len(backup.Exercises),
		len(backup.Sessions), len(backup.Attempts), len(backup.Progress))
	return nil
}

func (s *BackupService) exportUsers() ([]UserBackup, error) {
	rows, err := s.db.Query(`
		SELECT id, username, display_name, email, created_at, updated_at
		FROM users ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserBackup
	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *BackupService) exportCharacters() ([]CharacterBackup, error) {
	rows, err := s.db.Query(`
		SELECT id, traditional, simplified, jyutping, english, stroke_count, frequency_rank, difficulty
		FROM characters ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var characters []CharacterBackup
	for rows.Next() {
		var c CharacterBackup
		if err := rows.Scan(&c.ID, &c.Traditional, &c.Simplified, &c.Jyutping, &c.English,
			&c.StrokeCount, &c.FrequencyRank, &c.Difficulty); err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	return characters, rows.Err()
}

func (s *BackupService) exportExercises() ([]ExerciseBackup, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, title, difficulty, total_strokes, position
		FROM exercises ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []ExerciseBackup
	for rows.Next() {
		var e ExerciseBackup
		if err := rows.Scan(&e.ID, &e.Kind, &e.Title, &e.Difficulty, &e.TotalStrokes, &e.Position); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range exercises {
		linkRows, err := s.db.Query(`
			SELECT character_id FROM exercise_characters
			WHERE exercise_id = ? ORDER BY position
		`, exercises[i].ID)
		if err != nil {
			return nil, err
		}
		for linkRows.Next() {
			var id int64
			if err := linkRows.Scan(&id); err != nil {
				linkRows.Close()
				return nil, err
			}
			exercises[i].CharacterIDs = append(exercises[i].CharacterIDs, id)
		}
		if err := linkRows.Err(); err != nil {
			linkRows.Close()
			return nil, err
		}
		linkRows.Close()
	}
	return exercises, nil
}

func (s *BackupService) exportSessions() ([]SessionBackup, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, started_at, completed_at, overall_accuracy, total_time_ms, completed
		FROM practice_sessions ORDER BY started_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionBackup
	for rows.Next() {
		var sess SessionBackup
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.StartedAt, &sess.CompletedAt,
			&sess.OverallAccuracy, &sess.TotalTimeMs, &sess.Completed); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *BackupService) exportAttempts() ([]AttemptBackup, error) {
	rows, err := s.db.Query(`
		SELECT session_id, user_id, exercise_id, character_id, attempt_number,
		       accuracy, time_spent_ms, stroke_count, strokes_json, completed, created_at, updated_at
		FROM practice_attempts ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []AttemptBackup
	for rows.Next() {
		var a AttemptBackup
		if err := rows.Scan(&a.SessionID, &a.UserID, &a.ExerciseID, &a.CharacterID, &a.AttemptNumber,
			&a.Accuracy, &a.TimeSpentMs, &a.StrokeCount, &a.StrokesJSON, &a.Completed,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (s *BackupService) exportProgress() ([]ProgressBackup, error) {
	rows, err := s.db.Query(`
		SELECT user_id, character_id, accuracy_history_json, total_attempts,
		       streak, mastery_level, last_practiced_at, next_review_at
		FROM user_progress ORDER BY user_id, character_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ProgressBackup
	for rows.Next() {
		var p ProgressBackup
		if err := rows.Scan(&p.UserID, &p.CharacterID, &p.HistoryJSON, &p.TotalAttempts,
			&p.Streak, &p.MasteryLevel, &p.LastPracticedAt, &p.NextReviewAt); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

// Import restores database contents from a JSON backup file. Rows are
// inserted with their original ids, so importing into a non-empty database
// requires -clear first.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	for _, u := range backup.Users {
		if _, err := s.db.Exec(`
			INSERT INTO users (id, username, display_name, email, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, u.ID, u.Username, u.DisplayName, u.Email, u.CreatedAt, u.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.Username, err)
		}
	}

	for _, c := range backup.Characters {
		if _, err := s.db.Exec(`
			INSERT INTO characters (id, traditional, simplified, jyutping, english, stroke_count, frequency_rank, difficulty)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.Traditional, c.Simplified, c.Jyutping, c.English, c.StrokeCount, c.FrequencyRank, c.Difficulty); err != nil {
			return fmt.Errorf("failed to import character %s: %w", c.Traditional, err)
		}
	}

	for _, e := range backup.Exercises {
		if _, err := s.db.Exec(`
			INSERT INTO exercises (id, kind, title, difficulty, total_strokes, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.ID, e.Kind, e.Title, e.Difficulty, e.TotalStrokes, e.Position); err != nil {
			return fmt.Errorf("failed to import exercise %s: %w", e.Title, err)
		}
		for pos, characterID := range e.CharacterIDs {
			if _, err := s.db.Exec(`
				INSERT INTO exercise_characters (exercise_id, character_id, position)
				VALUES (?, ?, ?)
			`, e.ID, characterID, pos); err != nil {
				return fmt.Errorf("failed to link exercise %s: %w", e.Title, err)
			}
		}
	}

	for _, sess := range backup.Sessions {
		if _, err := s.db.Exec(`
			INSERT INTO practice_sessions (id, user_id, started_at, completed_at, overall_accuracy, total_time_ms, completed)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, sess.ID, sess.UserID, sess.StartedAt, sess.CompletedAt, sess.OverallAccuracy, sess.TotalTimeMs, sess.Completed); err != nil {
			return fmt.Errorf("failed to import session %s: %w", sess.ID, err)
		}
	}

	for _, a := range backup.Attempts {
		if _, err := s.db.Exec(`
			INSERT INTO practice_attempts (session_id, user_id, exercise_id, character_id, attempt_number,
				accuracy, time_spent_ms, stroke_count, strokes_json, completed, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.SessionID, a.UserID, a.ExerciseID, a.CharacterID, a.AttemptNumber,
			a.Accuracy, a.TimeSpentMs, a.StrokeCount, a.StrokesJSON, a.Completed, a.CreatedAt, a.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import attempt for session %s: %w", a.SessionID, err)
		}
	}

	for _, p := range backup.Progress {
		if _, err := s.db.Exec(`
			INSERT INTO user_progress (user_id, character_id, accuracy_history_json, total_attempts,
				streak, mastery_level, last_practiced_at, next_review_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, p.UserID, p.CharacterID, p.HistoryJSON, p.TotalAttempts,
			p.Streak, p.MasteryLevel, p.LastPracticedAt, p.NextReviewAt); err != nil {
			return fmt.Errorf("failed to import progress for user %d: %w", p.UserID, err)
		}
	}

	log.Printf("Imported %d users, %d characters, %d exercises, %d sessions, %d attempts, %d progress records",
		len(backup.Users), len(backup.Characters), len(backup.Exercises),
		len(backup.Sessions), len(backup.Attempts), len(backup.Progress))
	return nil
}
