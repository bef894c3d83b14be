package service

import (
	"fmt"
	"time"

	"strokeclash/internal/models"
	"strokeclash/internal/repository"
	"strokeclash/internal/security"
	"strokeclash/internal/srs"
	"strokeclash/internal/stroke"
)

// PracticeService handles session lifecycle and attempt scoring
type PracticeService struct {
	userRepo      *repository.UserRepository
	sessionRepo   *repository.SessionRepository
	attemptRepo   *repository.AttemptRepository
	progressRepo  *repository.ProgressRepository
	characterRepo *repository.CharacterRepository
	exerciseRepo  *repository.ExerciseRepository
}

// NewPracticeService creates a new practice service
func NewPracticeService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
	characterRepo *repository.CharacterRepository,
	exerciseRepo *repository.ExerciseRepository,
) *PracticeService {
	return &PracticeService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		attemptRepo:   attemptRepo,
		progressRepo:  progressRepo,
		characterRepo: characterRepo,
		exerciseRepo:  exerciseRepo,
	}
}

// StartSession finds or creates the user and opens a new practice session
func (s *PracticeService) StartSession(username string) (*models.User, *models.PracticeSession, error) {
	user, err := s.userRepo.FindOrCreate(username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find or create user %s: %w", username, err)
	}

	session, err := s.sessionRepo.Create(security.GenerateSessionID(), user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create practice session: %w", err)
	}

	return user, session, nil
}

// AttemptInput carries one attempt submission after request validation
type AttemptInput struct {
	SessionID     string
	ExerciseID    int64
	CharacterID   int64
	AttemptNumber int
	Strokes       []models.Stroke
	Accuracy      float64
	TimeSpentMs   int64
	Completed     bool
}

// SubmitAttempt saves one attempt, superseding any earlier save of the same
// attempt number. When raw strokes are present the accuracy is recomputed
// server-side from them; the client-reported value is only trusted for
// stroke-less submissions. Completed attempts also feed the spaced-repetition
// schedule for the character.
func (s *PracticeService) SubmitAttempt(input AttemptInput) (*models.PracticeAttempt, *models.UserProgress, error) {
	session, err := s.sessionRepo.GetByID(input.SessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, nil, fmt.Errorf("session %s: %w", input.SessionID, ErrNotFound)
	}
	if session.Completed {
		return nil, nil, fmt.Errorf("session %s is already completed: %w", input.SessionID, ErrInvalid)
	}

	character, err := s.characterRepo.GetByID(input.CharacterID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load character: %w", err)
	}
	if character == nil {
		return nil, nil, fmt.Errorf("character %d: %w", input.CharacterID, ErrNotFound)
	}

	exercise, err := s.exerciseRepo.GetByID(input.ExerciseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	if exercise == nil {
		return nil, nil, fmt.Errorf("exercise %d: %w", input.ExerciseID, ErrNotFound)
	}

	accuracy := clampAccuracy(input.Accuracy)
	if len(input.Strokes) > 0 {
		accuracy = stroke.Score(input.Strokes, character.StrokeCount)
	}

	attemptNumber := input.AttemptNumber
	if attemptNumber < 1 {
		attemptNumber = 1
	}

	attempt := &models.PracticeAttempt{
		SessionID:     session.ID,
		UserID:        session.UserID,
		ExerciseID:    exercise.ID,
		CharacterID:   character.ID,
		AttemptNumber: attemptNumber,
		Strokes:       input.Strokes,
		Accuracy:      accuracy,
		TimeSpentMs:   input.TimeSpentMs,
		Completed:     input.Completed,
	}
	if err := s.attemptRepo.Save(attempt); err != nil {
		return nil, nil, fmt.Errorf("failed to save attempt: %w", err)
	}

	if !input.Completed {
		return attempt, nil, nil
	}

	progress, err := s.recordProgress(session.UserID, character.ID, accuracy, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return attempt, progress, nil
}

// recordProgress applies one completed attempt to the user's per-character
// spaced-repetition state
func (s *PracticeService) recordProgress(userID, characterID int64, accuracy float64, now time.Time) (*models.UserProgress, error) {
	progress, err := s.progressRepo.Get(userID, characterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress == nil {
		progress = &models.UserProgress{UserID: userID, CharacterID: characterID}
	}

	updated := srs.Apply(*progress, accuracy, now)
	if err := s.progressRepo.Save(&updated); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return &updated, nil
}

// CompleteSession finalizes a session with aggregates computed from its
// completed attempts. Completing an already-completed session is a no-op.
func (s *PracticeService) CompleteSession(sessionID string) (*models.PracticeSession, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if session.Completed {
		return session, nil
	}

	attempts, err := s.attemptRepo.GetSessionAttempts(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session attempts: %w", err)
	}

	totalAccuracy := 0.0
	totalTimeMs := int64(0)
	completedCount := 0
	for _, attempt := range attempts {
		totalTimeMs += attempt.TimeSpentMs
		if attempt.Completed {
			totalAccuracy += attempt.Accuracy
			completedCount++
		}
	}

	overallAccuracy := 0.0
	if completedCount > 0 {
		overallAccuracy = totalAccuracy / float64(completedCount)
	}

	if err := s.sessionRepo.Complete(sessionID, overallAccuracy, totalTimeMs); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	return s.sessionRepo.GetByID(sessionID)
}

// GetSessionResults retrieves a session with its attempts
func (s *PracticeService) GetSessionResults(sessionID string) (*models.PracticeSession, []models.PracticeAttempt, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}

	attempts, err := s.attemptRepo.GetSessionAttempts(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session attempts: %w", err)
	}
	return session, attempts, nil
}

// AbandonStaleSessions closes out sessions started before the cutoff that the
// learner never finished
func (s *PracticeService) AbandonStaleSessions(cutoff time.Time) (int64, error) {
	return s.sessionRepo.AbandonStale(cutoff)
}

func clampAccuracy(accuracy float64) float64 {
	if accuracy < 0 {
		return 0
	}
	if accuracy > 100 {
		return 100
	}
	return accuracy
}
