package service

import (
	"fmt"
	"time"

	"strokeclash/internal/models"
	"strokeclash/internal/repository"
	"strokeclash/internal/srs"
)

const (
	// A character counts as struggling below this average accuracy with at
	// least this many completed attempts
	strugglingAccuracyThreshold = 60.0
	strugglingMinAttempts       = 3

	recentAttemptLimit = 20
)

// ProgressService builds per-user progress reports
type ProgressService struct {
	userRepo     *repository.UserRepository
	attemptRepo  *repository.AttemptRepository
	progressRepo *repository.ProgressRepository
}

// NewProgressService creates a new progress service
func NewProgressService(
	userRepo *repository.UserRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
) *ProgressService {
	return &ProgressService{
		userRepo:     userRepo,
		attemptRepo:  attemptRepo,
		progressRepo: progressRepo,
	}
}

// ProgressReport is the full progress view for one learner
type ProgressReport struct {
	User           *models.User            `json:"user"`
	Stats          models.UserStats        `json:"stats"`
	Characters     []models.UserProgress   `json:"characters"`
	RecentAttempts []models.AttemptSummary `json:"recentAttempts"`
}

// GetUserProgress aggregates a learner's stats, per-character progress, and
// recent attempt history
func (s *ProgressService) GetUserProgress(username string) (*ProgressReport, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}

	totalAttempts, averageAccuracy, err := s.attemptRepo.GetUserAggregates(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt aggregates: %w", err)
	}

	records, err := s.progressRepo.GetAllForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress records: %w", err)
	}

	mastered := 0
	for _, record := range records {
		if record.MasteryLevel == srs.MaxMasteryLevel {
			mastered++
		}
	}

	dueForReview, err := s.progressRepo.CountDue(user.ID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count due reviews: %w", err)
	}

	recent, err := s.attemptRepo.GetRecentByUser(user.ID, recentAttemptLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent attempts: %w", err)
	}

	return &ProgressReport{
		User: user,
		Stats: models.UserStats{
			TotalAttempts:      totalAttempts,
			AverageAccuracy:    averageAccuracy,
			CharactersLearned:  len(records),
			MasteredCharacters: mastered,
			DueForReview:       dueForReview,
		},
		Characters:     records,
		RecentAttempts: recent,
	}, nil
}

// GetStrugglingCharacters returns the characters a learner keeps missing,
// worst accuracy first
func (s *ProgressService) GetStrugglingCharacters(username string) ([]models.StrugglingCharacter, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}

	return s.attemptRepo.GetStrugglingCharacters(user.ID, strugglingAccuracyThreshold, strugglingMinAttempts)
}
