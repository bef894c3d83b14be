package repository

import (
	"database/sql"

	"strokeclash/internal/database"
	"strokeclash/internal/models"
)

// CharacterRepository handles character reference data
type CharacterRepository struct {
	db *database.DB
}

// NewCharacterRepository creates a new character repository
func NewCharacterRepository(db *database.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, traditional, simplified, jyutping, english, stroke_count, frequency_rank, difficulty, created_at`

func scanCharacter(scanner interface{ Scan(...interface{}) error }) (models.Character, error) {
	var c models.Character
	err := scanner.Scan(
		&c.ID,
		&c.Traditional,
		&c.Simplified,
		&c.Jyutping,
		&c.English,
		&c.StrokeCount,
		&c.FrequencyRank,
		&c.Difficulty,
		&c.CreatedAt,
	)
	return c, err
}

// GetAll retrieves the full character set ordered by frequency rank
func (r *CharacterRepository) GetAll() ([]models.Character, error) {
	rows, err := r.db.Query(`
		SELECT ` + characterColumns + `
		FROM characters
		ORDER BY frequency_rank ASC
	`)
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

// GetByID retrieves one character, nil when not found
func (r *CharacterRepository) GetByID(id int64) (*models.Character, error) {
	row := r.db.QueryRow(`
		SELECT `+characterColumns+`
		FROM characters
		WHERE id = ?
	`, id)

	c, err := scanCharacter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
