package handlers

import (
	"errors"
	"net/http"

	"strokeclash/internal/database"
)

// AdminHandler handles admin-key-guarded maintenance endpoints
type AdminHandler struct {
	db       *database.DB
	seedPath string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *database.DB, seedPath string) *AdminHandler {
	return &AdminHandler{db: db, seedPath: seedPath}
}

// Reseed handles POST /api/admin/reseed: replace the character and exercise
// reference data from the seed file. Refused once practice history references
// the current data.
func (h *AdminHandler) Reseed(w http.ResponseWriter, r *http.Request) {
	if err := h.db.ReseedCharacters(h.seedPath); err != nil {
		if errors.Is(err, database.ErrPracticeHistory) {
			respondBadRequest(w, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reseeded"})
}
