package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/taskpilot/taskpilot/internal/dispatch"
	"github.com/taskpilot/taskpilot/pkg/types"
)

type createTodoRequest struct {
	Content  string `json:"content"`
	Priority string `json:"priority"`
	DueDate  string `json:"dueDate"`
}

type toggleTodoRequest struct {
	IsCompleted bool `json:"isCompleted"`
}

// handleTodos serves GET (list) and POST (create) on /api/todos.
func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		todos, err := s.store.ListForUser(r.Context(), session.UserID)
		if err != nil {
			slog.Error("failed to list todos", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if todos == nil {
			todos = []types.Todo{}
		}
		respondJSON(w, http.StatusOK, todos)

	case http.MethodPost:
		var req createTodoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		content := strings.TrimSpace(req.Content)
		if content == "" {
			respondError(w, http.StatusBadRequest, "Content is required")
			return
		}

		// Direct form submissions default differently from AI-dispatched
		// creates; both defaults live in config.
		priority := s.formPriority
		if req.Priority != "" {
			priority = types.Priority(strings.ToLower(req.Priority))
			if !priority.Valid() {
				respondError(w, http.StatusBadRequest, "Invalid priority")
				return
			}
		}

		if err := s.store.Insert(r.Context(), session.UserID, content, priority, dispatch.ParseDueDate(req.DueDate)); err != nil {
			slog.Error("failed to create todo", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		todos, err := s.store.ListForUser(r.Context(), session.UserID)
		if err != nil {
			slog.Error("failed to list todos", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if len(todos) == 0 {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		respondJSON(w, http.StatusCreated, todos[0])

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleToggleTodo serves POST /api/todos/toggle/{id}.
func (s *Server) handleToggleTodo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/todos/toggle/"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid todo id")
		return
	}

	var req toggleTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.store.SetCompleted(r.Context(), id, session.UserID, req.IsCompleted); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Todo not found")
			return
		}
		slog.Error("failed to toggle todo", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	todos, err := s.store.ListForUser(r.Context(), session.UserID)
	if err != nil {
		slog.Error("failed to list todos", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for i := range todos {
		if todos[i].ID == id {
			respondJSON(w, http.StatusOK, todos[i])
			return
		}
	}
	respondError(w, http.StatusNotFound, "Todo not found")
}

// handleDeleteTodo serves DELETE /api/todos/{id}.
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/todos/"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid todo id")
		return
	}

	if err := s.store.Remove(r.Context(), id, session.UserID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Todo not found")
			return
		}
		slog.Error("failed to delete todo", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"deletedId": id})
}
