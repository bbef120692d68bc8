// Package types contains shared data types used across the taskpilot project.
package types

import (
	"strings"
	"time"
)

// Priority represents a todo priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status represents the completion state of a todo.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
)

// NormalizeStatus maps a raw status string onto the closed
// {complete, incomplete} set. "complete", "true" and "done" mean complete;
// every other value, recognized or not, falls back to incomplete so an
// ambiguous answer never marks work as finished.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "complete", "true", "done":
		return StatusComplete
	default:
		return StatusIncomplete
	}
}

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Todo is a persisted todo item owned by a single user.
type Todo struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"userId"`
	Content     string     `json:"content"`
	IsCompleted bool       `json:"isCompleted"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TodoContext is an advisory snapshot of a todo that a caller may supply so
// the model has situational awareness. The core never mutates or persists it.
type TodoContext struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
	Status   Status   `json:"status"`
	DueDate  string   `json:"dueDate,omitempty"`
}

// Session is a server-side login session identified by an opaque token.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
