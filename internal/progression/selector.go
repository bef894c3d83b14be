// Package progression chooses which characters a learner practices next.
// A Selector is constructed per user/session with its own state; there is no
// shared global instance.
package progression

import (
	"math/rand"
	"sort"

	"strokeclash/internal/models"
)

const (
	// MinLevel and MaxLevel bound the progression ladder
	MinLevel = 1
	MaxLevel = 5

	// DefaultMasteryThreshold is the accuracy needed to mark a character completed
	DefaultMasteryThreshold = 85.0

	// DefaultAdvancementThreshold is the percent of a level's characters that
	// must be completed before the learner can advance
	DefaultAdvancementThreshold = 80.0

	// Within-bucket ordering is 80% frequency rank, 20% random jitter: common
	// characters come statistically earlier without the order going stale
	jitterWeight = 0.2

	// Endless mode batch sizes
	endlessPracticeCount = 20
	endlessReviewCount   = 10
)

// DifficultyFromStrokeCount derives a 1..5 difficulty from the stroke count.
// Deterministic by design: characters outside the table get the top bucket.
func DifficultyFromStrokeCount(strokes int) int {
	switch {
	case strokes <= 5:
		return 1
	case strokes <= 8:
		return 2
	case strokes <= 12:
		return 3
	case strokes <= 16:
		return 4
	default:
		return 5
	}
}

// Selector tracks one learner's position in the progression ladder
type Selector struct {
	characters           []models.Character
	completed            map[int64]bool
	currentLevel         int
	masteryThreshold     float64
	advancementThreshold float64
	rng                  *rand.Rand
}

// NewSelector builds a selector over the full character set. The rand source
// is injected so batch ordering is reproducible in tests.
func NewSelector(characters []models.Character, level int, rng *rand.Rand) *Selector {
	if level < MinLevel {
		level = MinLevel
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return &Selector{
		characters:           characters,
		completed:            make(map[int64]bool),
		currentLevel:         level,
		masteryThreshold:     DefaultMasteryThreshold,
		advancementThreshold: DefaultAdvancementThreshold,
		rng:                  rng,
	}
}

// CurrentLevel returns the learner's current level
func (s *Selector) CurrentLevel() int {
	return s.currentLevel
}

// CompletedCount returns how many characters the learner has completed
func (s *Selector) CompletedCount() int {
	return len(s.completed)
}

// IsCompleted reports whether a character has been completed
func (s *Selector) IsCompleted(characterID int64) bool {
	return s.completed[characterID]
}

// MarkCompleted adds the character to the completed set when the accuracy
// meets the mastery threshold. Returns whether the character was added.
func (s *Selector) MarkCompleted(characterID int64, accuracy float64) bool {
	if accuracy < s.masteryThreshold {
		return false
	}
	s.completed[characterID] = true
	return true
}

// RestoreCompleted seeds the completed set from persisted progress
func (s *Selector) RestoreCompleted(characterIDs []int64) {
	for _, id := range characterIDs {
		s.completed[id] = true
	}
}

// SettleLevel advances past levels the learner has already finished, so a
// selector rebuilt from persisted progress reports the same level whether or
// not a batch has been drawn from it yet.
func (s *Selector) SettleLevel() {
	for s.currentLevel < MaxLevel {
		remaining := false
		for _, c := range s.levelCharacters() {
			if !s.completed[c.ID] {
				remaining = true
				break
			}
		}
		if remaining || !s.CanAdvanceLevel() {
			return
		}
		s.currentLevel++
	}
}

// levelCharacters returns the current level's character subset: everything
// at or below the level's max difficulty, frequency-ordered.
func (s *Selector) levelCharacters() []models.Character {
	var subset []models.Character
	for _, c := range s.characters {
		if s.difficultyOf(c) <= s.currentLevel {
			subset = append(subset, c)
		}
	}
	sort.SliceStable(subset, func(i, j int) bool {
		return subset[i].FrequencyRank < subset[j].FrequencyRank
	})
	return subset
}

func (s *Selector) difficultyOf(c models.Character) int {
	if c.Difficulty >= MinLevel && c.Difficulty <= MaxLevel {
		return c.Difficulty
	}
	return DifficultyFromStrokeCount(c.StrokeCount)
}

// CanAdvanceLevel reports whether enough of the current level is completed
func (s *Selector) CanAdvanceLevel() bool {
	level := s.levelCharacters()
	if len(level) == 0 {
		return false
	}
	mastered := 0
	for _, c := range level {
		if s.completed[c.ID] {
			mastered++
		}
	}
	return float64(mastered)/float64(len(level))*100 >= s.advancementThreshold
}

// NextCharactersForPractice picks up to count characters from the current
// level, excluding completed ones. Candidates are bucketed by difficulty,
// ordered within each bucket by frequency rank with bounded random jitter,
// then drawn round-robin across buckets so the batch mixes difficulties.
//
// When the level has no un-completed characters left: advance and recurse if
// the advancement criteria are met, otherwise return a shuffled review batch
// of the level's full character list.
func (s *Selector) NextCharactersForPractice(count int) []models.Character {
	if count <= 0 {
		return nil
	}

	level := s.levelCharacters()
	var available []models.Character
	for _, c := range level {
		if !s.completed[c.ID] {
			available = append(available, c)
		}
	}

	if len(available) == 0 {
		if s.CanAdvanceLevel() && s.currentLevel < MaxLevel {
			s.currentLevel++
			return s.NextCharactersForPractice(count)
		}
		// Reinforcement mode: re-drill the whole level in random order
		review := append([]models.Character(nil), level...)
		s.rng.Shuffle(len(review), func(i, j int) {
			review[i], review[j] = review[j], review[i]
		})
		if len(review) > count {
			review = review[:count]
		}
		return review
	}

	buckets := s.bucketByDifficulty(available)
	picked := make([]models.Character, 0, count)
	for len(picked) < count {
		progressed := false
		for d := MinLevel; d <= MaxLevel && len(picked) < count; d++ {
			if len(buckets[d]) == 0 {
				continue
			}
			picked = append(picked, buckets[d][0])
			buckets[d] = buckets[d][1:]
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return picked
}

// bucketByDifficulty splits candidates by difficulty and sorts each bucket
// by a weighted key: 80% normalized frequency rank, 20% random jitter.
func (s *Selector) bucketByDifficulty(candidates []models.Character) map[int][]models.Character {
	maxRank := 1
	for _, c := range candidates {
		if c.FrequencyRank > maxRank {
			maxRank = c.FrequencyRank
		}
	}

	type keyed struct {
		char models.Character
		key  float64
	}

	buckets := make(map[int][]keyed)
	for _, c := range candidates {
		d := s.difficultyOf(c)
		key := (1-jitterWeight)*(float64(c.FrequencyRank)/float64(maxRank)) + jitterWeight*s.rng.Float64()
		buckets[d] = append(buckets[d], keyed{char: c, key: key})
	}

	result := make(map[int][]models.Character, len(buckets))
	for d, ks := range buckets {
		sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
		chars := make([]models.Character, len(ks))
		for i, k := range ks {
			chars[i] = k.char
		}
		result[d] = chars
	}
	return result
}

// GenerateEndlessBatch concatenates a fresh practice batch with a review
// batch drawn from already-completed characters, each independently shuffled.
// count caps the fresh portion; zero or negative falls back to the default.
func (s *Selector) GenerateEndlessBatch(count int) []models.Character {
	if count <= 0 {
		count = endlessPracticeCount
	}
	practice := s.NextCharactersForPractice(count)
	s.rng.Shuffle(len(practice), func(i, j int) {
		practice[i], practice[j] = practice[j], practice[i]
	})

	var completed []models.Character
	for _, c := range s.characters {
		if s.completed[c.ID] {
			completed = append(completed, c)
		}
	}
	s.rng.Shuffle(len(completed), func(i, j int) {
		completed[i], completed[j] = completed[j], completed[i]
	})
	if len(completed) > endlessReviewCount {
		completed = completed[:endlessReviewCount]
	}

	return append(practice, completed...)
}
