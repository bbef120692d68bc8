package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taskpilot/taskpilot/pkg/types"
)

type assistantRequest struct {
	UserRequest  string              `json:"userRequest"`
	TodosContext []types.TodoContext `json:"todosContext"`
}

// handleAssistant serves POST /api/ai-todo: authenticate, run the agent,
// dispatch the resulting action and return the merged response. Agent-level
// failures come back as 200 {success:false}; a failed persistence write is a
// distinct 500 path so it is never reported as success.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserRequest == "" {
		respondError(w, http.StatusBadRequest, "Missing userRequest in request body")
		return
	}

	resp := s.agent.ProcessRequest(r.Context(), req.UserRequest, req.TodosContext)

	result, err := s.dispatcher.Dispatch(r.Context(), session.UserID, resp)
	if err != nil {
		slog.Error("dispatch failed", "error", err, "user", session.UserID)
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "An error occurred while processing your request. Please try again.",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}
