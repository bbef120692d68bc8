package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taskpilot/taskpilot/pkg/types"
)

// ListForUser returns all todos owned by the user, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]types.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content, is_completed, priority, due_date, created_at, updated_at
		FROM todos
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []types.Todo
	for rows.Next() {
		var todo types.Todo
		var dueDate sql.NullInt64
		var createdAt, updatedAt int64
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Content, &todo.IsCompleted,
			&todo.Priority, &dueDate, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		if dueDate.Valid {
			t := time.Unix(dueDate.Int64, 0)
			todo.DueDate = &t
		}
		todo.CreatedAt = time.Unix(createdAt, 0)
		todo.UpdatedAt = time.Unix(updatedAt, 0)
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// Insert creates a todo for the user.
func (s *Store) Insert(ctx context.Context, userID, content string, priority types.Priority, dueDate *time.Time) error {
	var due sql.NullInt64
	if dueDate != nil {
		due.Int64 = dueDate.Unix()
		due.Valid = true
	}

	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (user_id, content, is_completed, priority, due_date, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?, ?)
	`, userID, content, string(priority), due, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

// SetCompleted updates the completion flag of a todo owned by the user.
// Targeting a missing or foreign todo fails with types.ErrNotFound.
func (s *Store) SetCompleted(ctx context.Context, id int64, userID string, isCompleted bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE todos SET is_completed = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, isCompleted, time.Now().Unix(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Remove deletes a todo owned by the user. Targeting a missing or foreign
// todo fails with types.ErrNotFound.
func (s *Store) Remove(ctx context.Context, id int64, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM todos WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}
