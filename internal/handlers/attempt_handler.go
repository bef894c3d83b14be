package handlers

import (
	"net/http"

	"strokeclash/internal/models"
	"strokeclash/internal/service"
	"strokeclash/internal/validation"
)

// AttemptHandler handles attempt submission
type AttemptHandler struct {
	practiceService *service.PracticeService
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(practiceService *service.PracticeService) *AttemptHandler {
	return &AttemptHandler{practiceService: practiceService}
}

// submitAttemptRequest is one attempt submission. Accuracy is a pointer so a
// genuine 0 still passes the required check.
type submitAttemptRequest struct {
	Username      string          `json:"username" validate:"required"`
	SessionID     string          `json:"sessionId" validate:"required"`
	ExerciseID    int64           `json:"exerciseId" validate:"required"`
	CharacterID   int64           `json:"characterId" validate:"required"`
	AttemptNumber int             `json:"attemptNumber" validate:"omitempty,min=1"`
	Strokes       []models.Stroke `json:"strokes,omitempty"`
	Accuracy      *float64        `json:"accuracy" validate:"required"`
	TimeSpentMs   int64           `json:"timeSpentMs" validate:"min=0"`
	Completed     bool            `json:"completed"`

	// Accepted for client compatibility but not used server-side: the canvas
	// image is not stored, and difficulty/type are derived from the exercise
	CanvasSnapshot  string `json:"canvasSnapshot,omitempty"`
	DifficultyLevel int    `json:"difficultyLevel,omitempty"`
	ExerciseType    string `json:"exerciseType,omitempty"`
}

type submitAttemptResponse struct {
	Attempt  *models.PracticeAttempt `json:"attempt"`
	Progress *models.UserProgress    `json:"progress,omitempty"`
}

// Submit handles POST /api/attempts. In-progress saves for the same attempt
// number supersede each other; a completed submission also updates the
// character's review schedule.
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, err)
		return
	}

	attempt, progress, err := h.practiceService.SubmitAttempt(service.AttemptInput{
		SessionID:     req.SessionID,
		ExerciseID:    req.ExerciseID,
		CharacterID:   req.CharacterID,
		AttemptNumber: req.AttemptNumber,
		Strokes:       req.Strokes,
		Accuracy:      *req.Accuracy,
		TimeSpentMs:   req.TimeSpentMs,
		Completed:     req.Completed,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitAttemptResponse{Attempt: attempt, Progress: progress})
}
