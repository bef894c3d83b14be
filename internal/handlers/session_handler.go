package handlers

import (
	"net/http"

	"strokeclash/internal/models"
	"strokeclash/internal/security"
	"strokeclash/internal/service"
	"strokeclash/internal/validation"
)

// SessionHandler handles practice session endpoints
type SessionHandler struct {
	practiceService *service.PracticeService
	tokens          *security.TokenIssuer
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(practiceService *service.PracticeService, tokens *security.TokenIssuer) *SessionHandler {
	return &SessionHandler{practiceService: practiceService, tokens: tokens}
}

type startSessionRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

type startSessionResponse struct {
	User    *models.User            `json:"user"`
	Session *models.PracticeSession `json:"session"`
	Token   string                  `json:"token"`
}

// Start handles POST /api/sessions: find-or-create the user, open a session,
// and issue a token binding the two
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, err)
		return
	}

	user, session, err := h.practiceService.StartSession(req.Username)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.Username, session.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, startSessionResponse{
		User:    user,
		Session: session,
		Token:   token,
	})
}

type sessionResultsResponse struct {
	Session  *models.PracticeSession  `json:"session"`
	Attempts []models.PracticeAttempt `json:"attempts"`
}

// Results handles GET /api/sessions/{id}: the session with its attempts
func (h *SessionHandler) Results(w http.ResponseWriter, r *http.Request) {
	session, attempts, err := h.practiceService.GetSessionResults(r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResultsResponse{Session: session, Attempts: attempts})
}

// Complete handles POST /api/sessions/{id}/complete: finalize the session
// with aggregates from its attempts
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	session, err := h.practiceService.CompleteSession(r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
