package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskpilot/taskpilot/pkg/types"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *types.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, err := s.store.CreateUser(r.Context(), strings.TrimSpace(req.Name), strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, types.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		slog.Error("signup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.issueSession(w, r, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.store.Authenticate(r.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		slog.Error("login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.issueSession(w, r, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := sessionToken(r); token != "" {
		if err := s.store.DeleteSession(r.Context(), token); err != nil {
			slog.Warn("failed to revoke session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// issueSession creates a session for the user, sets the cookie and writes
// the auth response.
func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, user *types.User) {
	session, err := s.store.CreateSession(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, authResponse{User: user, Token: session.Token})
}

// sessionToken pulls the session token from the cookie or, failing that,
// the Authorization Bearer header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// requireSession resolves the request's session or writes a 401. A valid
// session is a hard precondition at this boundary; the orchestrator never
// re-checks it.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (*types.Session, bool) {
	token := sessionToken(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	session, err := s.store.GetSession(r.Context(), token)
	if err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return nil, false
		}
		slog.Error("session lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	return session, true
}
