package handlers

import (
	"net/http"
	"strconv"

	"strokeclash/internal/service"
)

// ExerciseHandler serves the exercise catalogue
type ExerciseHandler struct {
	exerciseService *service.ExerciseService
}

// NewExerciseHandler creates a new exercise handler
func NewExerciseHandler(exerciseService *service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// List handles GET /api/exercises: every exercise with its ordered
// characters, easiest first
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.exerciseService.ListExercises()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

// Get handles GET /api/exercises/{id}
func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondBadRequest(w, "invalid exercise id")
		return
	}

	exercise, err := h.exerciseService.GetExercise(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}
