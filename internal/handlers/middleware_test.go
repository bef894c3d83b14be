package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"strokeclash/internal/security"
)

func TestRateLimitMiddleware(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Minute)
	middleware := NewMiddleware(nil, limiter, "")

	handler := middleware.RateLimit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		handler(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, recorder.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", recorder.Code)
	}

	// A different client is unaffected
	req = httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	recorder = httptest.NewRecorder()
	handler(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", recorder.Code)
	}
}

func TestRequireSessionPassesClaims(t *testing.T) {
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	middleware := NewMiddleware(tokens, nil, "")

	token, err := tokens.Issue("siuming", "session-1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	var got *security.SessionClaims
	handler := middleware.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		got = GetSessionClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/session-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	handler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if got == nil || got.Username != "siuming" || got.SessionID != "session-1" {
		t.Errorf("claims = %+v, want siuming/session-1", got)
	}
}

func TestRequireSessionRejectsExpiredToken(t *testing.T) {
	expired := security.NewTokenIssuer("test-secret", -time.Hour)
	middleware := NewMiddleware(security.NewTokenIssuer("test-secret", time.Hour), nil, "")

	token, err := expired.Issue("siuming", "session-1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	handler := middleware.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for an expired token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/session-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	handler(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}
