package service

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"strokeclash/internal/models"
	"strokeclash/internal/progression"
	"strokeclash/internal/repository"
	"strokeclash/internal/srs"
)

// EndlessService generates endless-mode practice batches. Each request
// rebuilds a fresh selector from the learner's persisted progress, so the
// service itself holds no per-user state.
type EndlessService struct {
	userRepo      *repository.UserRepository
	characterRepo *repository.CharacterRepository
	exerciseRepo  *repository.ExerciseRepository
	progressRepo  *repository.ProgressRepository
	newRNG        func() *rand.Rand
}

// NewEndlessService creates a new endless mode service. The rand constructor
// is injectable for deterministic tests; nil gets a time-seeded default.
func NewEndlessService(
	userRepo *repository.UserRepository,
	characterRepo *repository.CharacterRepository,
	exerciseRepo *repository.ExerciseRepository,
	progressRepo *repository.ProgressRepository,
	newRNG func() *rand.Rand,
) *EndlessService {
	if newRNG == nil {
		newRNG = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &EndlessService{
		userRepo:      userRepo,
		characterRepo: characterRepo,
		exerciseRepo:  exerciseRepo,
		progressRepo:  progressRepo,
		newRNG:        newRNG,
	}
}

// EndlessItem is one character in an endless batch together with its
// single-character exercise
type EndlessItem struct {
	Character  models.Character `json:"character"`
	ExerciseID int64            `json:"exerciseId"`
}

// EndlessBatch is a generated endless-mode run together with the learner's
// progression standing
type EndlessBatch struct {
	Level          int           `json:"level"`
	CompletedCount int           `json:"completedCount"`
	CanAdvance     bool          `json:"canAdvance"`
	Items          []EndlessItem `json:"items"`
}

// GenerateBatch builds an endless batch for the user: fresh characters from
// their current level mixed with a review tail of already-mastered ones.
// count caps the fresh portion; zero takes the default batch size.
func (s *EndlessService) GenerateBatch(username string, count int) (*EndlessBatch, error) {
	user, err := s.userRepo.FindOrCreate(username)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create user %s: %w", username, err)
	}

	selector, err := s.buildSelector(user.ID)
	if err != nil {
		return nil, err
	}

	characters := selector.GenerateEndlessBatch(count)
	items := make([]EndlessItem, 0, len(characters))
	for _, c := range characters {
		exerciseID, err := s.exerciseRepo.GetCharacterExerciseID(c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve exercise for character %d: %w", c.ID, err)
		}
		if exerciseID == 0 {
			// A character without its single-character exercise can't be
			// practiced; drop it rather than hand out an unusable item
			log.Printf("Skipping character %d (%s): no character exercise", c.ID, c.Traditional)
			continue
		}
		items = append(items, EndlessItem{Character: c, ExerciseID: exerciseID})
	}

	return &EndlessBatch{
		Level:          selector.CurrentLevel(),
		CompletedCount: selector.CompletedCount(),
		CanAdvance:     selector.CanAdvanceLevel(),
		Items:          items,
	}, nil
}

// EndlessResult is one scored character from a finished endless run
type EndlessResult struct {
	CharacterID int64   `json:"characterId" validate:"required"`
	Accuracy    float64 `json:"accuracy" validate:"min=0,max=100"`
}

// EndlessSummary reports what a finished endless run changed
type EndlessSummary struct {
	Processed      int  `json:"processed"`
	NewlyCompleted int  `json:"newlyCompleted"`
	Advanced       bool `json:"advanced"`
	Level          int  `json:"level"`
	CanAdvance     bool `json:"canAdvance"`
}

// CompleteBatch records the results of a finished endless run. Every result
// feeds the character's spaced-repetition schedule; results at or above the
// mastery threshold count toward level advancement.
func (s *EndlessService) CompleteBatch(username string, results []EndlessResult) (*EndlessSummary, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}

	before, err := s.buildSelector(user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newlyCompleted := 0
	for _, result := range results {
		progress, err := s.progressRepo.Get(user.ID, result.CharacterID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}
		if progress == nil {
			progress = &models.UserProgress{UserID: user.ID, CharacterID: result.CharacterID}
		}

		wasCompleted := progress.AverageAccuracy() >= progression.DefaultMasteryThreshold && progress.TotalAttempts > 0

		updated := srs.Apply(*progress, clampAccuracy(result.Accuracy), now)
		if err := s.progressRepo.Save(&updated); err != nil {
			return nil, fmt.Errorf("failed to save progress: %w", err)
		}

		if !wasCompleted && updated.AverageAccuracy() >= progression.DefaultMasteryThreshold {
			newlyCompleted++
		}
	}

	after, err := s.buildSelector(user.ID)
	if err != nil {
		return nil, err
	}

	return &EndlessSummary{
		Processed:      len(results),
		NewlyCompleted: newlyCompleted,
		Advanced:       after.CurrentLevel() > before.CurrentLevel(),
		Level:          after.CurrentLevel(),
		CanAdvance:     after.CanAdvanceLevel(),
	}, nil
}

// buildSelector reconstructs the learner's progression state from persisted
// progress: characters whose retained average meets the mastery threshold are
// restored as completed, and the level settled past fully-finished rungs.
func (s *EndlessService) buildSelector(userID int64) (*progression.Selector, error) {
	characters, err := s.characterRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load characters: %w", err)
	}

	records, err := s.progressRepo.GetAllForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress records: %w", err)
	}

	var completed []int64
	for _, record := range records {
		if record.TotalAttempts > 0 && record.AverageAccuracy() >= progression.DefaultMasteryThreshold {
			completed = append(completed, record.CharacterID)
		}
	}

	selector := progression.NewSelector(characters, progression.MinLevel, s.newRNG())
	selector.RestoreCompleted(completed)
	selector.SettleLevel()
	return selector, nil
}
