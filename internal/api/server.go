// Package api implements the HTTP boundary: auth routes, todo CRUD and the
// natural-language assistant route.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/taskpilot/taskpilot/internal/dispatch"
	"github.com/taskpilot/taskpilot/internal/store"
	"github.com/taskpilot/taskpilot/pkg/types"
)

// sessionCookie is the cookie carrying the session token.
const sessionCookie = "taskpilot_session"

// TodoAgent is the orchestrator consumed by the assistant route.
type TodoAgent interface {
	ProcessRequest(ctx context.Context, userRequest string, todosContext []types.TodoContext) types.AgentResponse
}

// Server wires the store, agent and dispatcher behind the HTTP routes.
type Server struct {
	store         *store.Store
	agent         TodoAgent
	dispatcher    *dispatch.Dispatcher
	allowedOrigin string
	formPriority  types.Priority
}

// New creates a server. formPriority is the default applied to direct form
// creates, configured separately from the agent-side default.
func New(st *store.Store, agent TodoAgent, dispatcher *dispatch.Dispatcher, allowedOrigin string, formPriority types.Priority) *Server {
	if !formPriority.Valid() {
		formPriority = types.PriorityLow
	}
	return &Server{
		store:         st,
		agent:         agent,
		dispatcher:    dispatcher,
		allowedOrigin: allowedOrigin,
		formPriority:  formPriority,
	}
}

// Handler returns the complete route tree wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.cors(mux)
}

// RegisterRoutes attaches all routes to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/auth/signup", s.handleSignup)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/logout", s.handleLogout)

	mux.HandleFunc("/api/todos", s.handleTodos)
	mux.HandleFunc("/api/todos/toggle/", s.handleToggleTodo)
	mux.HandleFunc("/api/todos/", s.handleDeleteTodo)

	mux.HandleFunc("/api/ai-todo", s.handleAssistant)
}

// cors is a permissive CORS middleware for browser clients.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.allowedOrigin
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
