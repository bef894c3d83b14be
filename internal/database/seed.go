package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/BurntSushi/toml"

	"strokeclash/internal/progression"
)

// ErrPracticeHistory means the reference data is referenced by practice
// history and cannot be replaced in place
var ErrPracticeHistory = errors.New("practice history exists")

// seedFile is the on-disk layout of seed/characters.toml
type seedFile struct {
	Characters []seedCharacter `toml:"characters"`
	Phrases    []seedPhrase    `toml:"phrases"`
}

type seedCharacter struct {
	Traditional string `toml:"traditional"`
	Simplified  string `toml:"simplified"`
	Jyutping    string `toml:"jyutping"`
	English     string `toml:"english"`
	Strokes     int    `toml:"strokes"`
	Frequency   int    `toml:"frequency"`
}

type seedPhrase struct {
	Title      string   `toml:"title"`
	Characters []string `toml:"characters"`
}

// SeedCharacters loads reference character data from the TOML seed file.
// Already-seeded databases are left alone; use ReseedCharacters to force a
// refresh.
func (db *DB) SeedCharacters(seedPath string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM characters").Scan(&count); err != nil {
		return fmt.Errorf("failed to count characters: %w", err)
	}
	if count > 0 {
		return nil
	}
	return db.loadSeedData(seedPath)
}

// ReseedCharacters replaces all exercise and character reference data.
// Attempts reference exercises and characters, and clearing characters would
// cascade into user progress, so the reseed refuses to run once any practice
// history exists: it returns ErrPracticeHistory instead of destroying data.
func (db *DB) ReseedCharacters(seedPath string) error {
	for _, table := range []string{"practice_attempts", "user_progress"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		if count > 0 {
			return fmt.Errorf("%s has %d rows: %w", table, count, ErrPracticeHistory)
		}
	}

	for _, table := range []string{"exercise_characters", "exercises", "characters"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return db.loadSeedData(seedPath)
}

func (db *DB) loadSeedData(seedPath string) error {
	var seed seedFile
	if _, err := toml.DecodeFile(seedPath, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", seedPath, err)
	}

	if len(seed.Characters) == 0 {
		return fmt.Errorf("seed file %s contains no characters", seedPath)
	}

	idByGlyph := make(map[string]int64, len(seed.Characters))

	for _, c := range seed.Characters {
		difficulty := progression.DifficultyFromStrokeCount(c.Strokes)
		id, err := db.ExecReturningID(`
			INSERT INTO characters (traditional, simplified, jyutping, english, stroke_count, frequency_rank, difficulty)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, c.Traditional, c.Simplified, c.Jyutping, c.English, c.Strokes, c.Frequency, difficulty)
		if err != nil {
			return fmt.Errorf("failed to seed character %s: %w", c.Traditional, err)
		}
		idByGlyph[c.Traditional] = id

		// Every character gets a single-character exercise
		exerciseID, err := db.ExecReturningID(`
			INSERT INTO exercises (kind, title, difficulty, total_strokes, position)
			VALUES ('character', ?, ?, ?, ?)
		`, c.Traditional, difficulty, c.Strokes, c.Frequency)
		if err != nil {
			return fmt.Errorf("failed to seed exercise for %s: %w", c.Traditional, err)
		}
		if _, err := db.Exec(`
			INSERT INTO exercise_characters (exercise_id, character_id, position)
			VALUES (?, ?, 0)
		`, exerciseID, id); err != nil {
			return fmt.Errorf("failed to link exercise for %s: %w", c.Traditional, err)
		}
	}

	for i, p := range seed.Phrases {
		totalStrokes := 0
		maxDifficulty := 1
		ids := make([]int64, 0, len(p.Characters))
		for _, glyph := range p.Characters {
			id, ok := idByGlyph[glyph]
			if !ok {
				return fmt.Errorf("phrase %q references unknown character %q", p.Title, glyph)
			}
			ids = append(ids, id)
		}
		for _, glyph := range p.Characters {
			for _, c := range seed.Characters {
				if c.Traditional == glyph {
					totalStrokes += c.Strokes
					if d := progression.DifficultyFromStrokeCount(c.Strokes); d > maxDifficulty {
						maxDifficulty = d
					}
				}
			}
		}

		exerciseID, err := db.ExecReturningID(`
			INSERT INTO exercises (kind, title, difficulty, total_strokes, position)
			VALUES ('phrase', ?, ?, ?, ?)
		`, p.Title, maxDifficulty, totalStrokes, i)
		if err != nil {
			return fmt.Errorf("failed to seed phrase %q: %w", p.Title, err)
		}
		for pos, id := range ids {
			if _, err := db.Exec(`
				INSERT INTO exercise_characters (exercise_id, character_id, position)
				VALUES (?, ?, ?)
			`, exerciseID, id, pos); err != nil {
				return fmt.Errorf("failed to link phrase %q: %w", p.Title, err)
			}
		}
	}

	log.Printf("Seeded %d characters and %d phrases", len(seed.Characters), len(seed.Phrases))
	return nil
}
