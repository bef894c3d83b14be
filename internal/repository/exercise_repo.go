package repository

import (
	"database/sql"

	"strokeclash/internal/database"
	"strokeclash/internal/models"
)

// ExerciseRepository handles exercise database operations
type ExerciseRepository struct {
	db *database.DB
}

// NewExerciseRepository creates a new exercise repository
func NewExerciseRepository(db *database.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// GetAllWithCharacters retrieves all exercises ordered by ascending
// difficulty, each carrying its ordered characters
func (r *ExerciseRepository) GetAllWithCharacters() ([]models.Exercise, error) {
	rows, err := r.db.Query(`
		SELECT id, kind, title, difficulty, total_strokes, position, created_at
		FROM exercises
		ORDER BY difficulty ASC, position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		var e models.Exercise
		err := rows.Scan(&e.ID, &e.Kind, &e.Title, &e.Difficulty, &e.TotalStrokes, &e.Position, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range exercises {
		characters, err := r.getExerciseCharacters(exercises[i].ID)
		if err != nil {
			return nil, err
		}
		exercises[i].Characters = characters
	}

	return exercises, nil
}

// GetByID retrieves one exercise with its characters, nil when not found
func (r *ExerciseRepository) GetByID(id int64) (*models.Exercise, error) {
	var e models.Exercise
	err := r.db.QueryRow(`
		SELECT id, kind, title, difficulty, total_strokes, position, created_at
		FROM exercises
		WHERE id = ?
	`, id).Scan(&e.ID, &e.Kind, &e.Title, &e.Difficulty, &e.TotalStrokes, &e.Position, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	characters, err := r.getExerciseCharacters(e.ID)
	if err != nil {
		return nil, err
	}
	e.Characters = characters
	return &e, nil
}

// GetCharacterExerciseID finds the single-character exercise for a character,
// 0 when none exists
func (r *ExerciseRepository) GetCharacterExerciseID(characterID int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		SELECT e.id
		FROM exercises e
		JOIN exercise_characters ec ON ec.exercise_id = e.id
		WHERE e.kind = 'character' AND ec.character_id = ?
	`, characterID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return id, err
}

func (r *ExerciseRepository) getExerciseCharacters(exerciseID int64) ([]models.Character, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.traditional, c.simplified, c.jyutping, c.english,
		       c.stroke_count, c.frequency_rank, c.difficulty, c.created_at
		FROM characters c
		JOIN exercise_characters ec ON ec.character_id = c.id
		WHERE ec.exercise_id = ?
		ORDER BY ec.position ASC
	`, exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var characters []models.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}

	return characters, rows.Err()
}
