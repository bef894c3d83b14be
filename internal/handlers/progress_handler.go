package handlers

import (
	"net/http"

	"strokeclash/internal/service"
)

// ProgressHandler serves per-user progress reports
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetProgress handles GET /api/users/{username}/progress
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	report, err := h.progressService.GetUserProgress(r.PathValue("username"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetStruggling handles GET /api/users/{username}/struggling
func (h *ProgressHandler) GetStruggling(w http.ResponseWriter, r *http.Request) {
	struggling, err := h.progressService.GetStrugglingCharacters(r.PathValue("username"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struggling)
}
