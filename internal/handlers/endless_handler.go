package handlers

import (
	"net/http"

	"strokeclash/internal/service"
	"strokeclash/internal/validation"
)

// EndlessHandler handles endless practice mode
type EndlessHandler struct {
	endlessService *service.EndlessService
}

// NewEndlessHandler creates a new endless mode handler
func NewEndlessHandler(endlessService *service.EndlessService) *EndlessHandler {
	return &EndlessHandler{endlessService: endlessService}
}

type generateBatchRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Count    int    `json:"count,omitempty" validate:"omitempty,min=1,max=100"`
}

// Generate handles POST /api/endless/generate: a fresh batch for the user's
// current level plus a review tail of mastered characters. The level comes
// from the learner's persisted progress; count caps the fresh portion.
func (h *EndlessHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, err)
		return
	}

	batch, err := h.endlessService.GenerateBatch(req.Username, req.Count)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

type completeBatchRequest struct {
	Username string                  `json:"username" validate:"required,max=64"`
	Results  []service.EndlessResult `json:"results" validate:"required,min=1,dive"`
}

// Complete handles POST /api/endless/complete: record the run's results and
// report level standing
func (h *EndlessHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, err)
		return
	}

	summary, err := h.endlessService.CompleteBatch(req.Username, req.Results)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
