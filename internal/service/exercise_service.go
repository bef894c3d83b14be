package service

import (
	"fmt"

	"strokeclash/internal/models"
	"strokeclash/internal/repository"
)

// ExerciseService exposes the seeded exercise catalogue
type ExerciseService struct {
	exerciseRepo *repository.ExerciseRepository
}

// NewExerciseService creates a new exercise service
func NewExerciseService(exerciseRepo *repository.ExerciseRepository) *ExerciseService {
	return &ExerciseService{exerciseRepo: exerciseRepo}
}

// ListExercises returns all exercises with their characters, easiest first
func (s *ExerciseService) ListExercises() ([]models.Exercise, error) {
	return s.exerciseRepo.GetAllWithCharacters()
}

// GetExercise returns one exercise with its characters
func (s *ExerciseService) GetExercise(id int64) (*models.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	if exercise == nil {
		return nil, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	return exercise, nil
}
