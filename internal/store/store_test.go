package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/pkg/types"
)

// low bcrypt cost keeps the suite fast
func newTestStore(t *testing.T) *Store {
	t.Helper()
	return newTestStoreTTL(t, time.Hour)
}

func newTestStoreTTL(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), config.AuthConfig{
		SessionTTL: ttl,
		BcryptCost: 4,
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *Store, email string) *types.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), "Test User", email, "hunter22")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "a@example.com")
	if user.ID == "" {
		t.Error("user id not assigned")
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password stored in the clear")
	}

	got, err := s.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Email != "a@example.com" || got.Name != "Test User" {
		t.Errorf("got %+v", got)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	newTestUser(t, s, "a@example.com")

	_, err := s.CreateUser(context.Background(), "Other", "a@example.com", "different")
	if !errors.Is(err, types.ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser(context.Background(), "missing"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	got, err := s.Authenticate(ctx, "a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}

	// unknown email and wrong password fail identically
	if _, err := s.Authenticate(ctx, "a@example.com", "wrong"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("wrong password: error = %v, want ErrUnauthorized", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("unknown email: error = %v, want ErrUnauthorized", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("empty token")
	}

	got, err := s.GetSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", got.UserID, user.ID)
	}

	if err := s.DeleteSession(ctx, session.Token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := s.GetSession(ctx, session.Token); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("revoked token: error = %v, want ErrUnauthorized", err)
	}

	if _, err := s.GetSession(ctx, "unknown-token"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("unknown token: error = %v, want ErrUnauthorized", err)
	}
}

func TestExpiredSession(t *testing.T) {
	s := newTestStoreTTL(t, -time.Hour)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := s.GetSession(ctx, session.Token); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expired token: error = %v, want ErrUnauthorized", err)
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	s := newTestStoreTTL(t, -time.Hour)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	if _, err := s.CreateSession(ctx, user.ID); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := s.CreateSession(ctx, user.ID); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	n, err := s.PurgeExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("PurgeExpiredSessions failed: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d sessions, want 2", n)
	}
}

func TestTodoLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	due := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	if err := s.Insert(ctx, user.ID, "first", types.PriorityLow, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Insert(ctx, user.ID, "second", types.PriorityHigh, &due); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	todos, err := s.ListForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("got %d todos, want 2", len(todos))
	}
	// newest first, id breaks same-second ties
	if todos[0].Content != "second" || todos[1].Content != "first" {
		t.Errorf("order = [%q, %q], want newest first", todos[0].Content, todos[1].Content)
	}
	if todos[0].DueDate == nil || !todos[0].DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", todos[0].DueDate, due)
	}
	if todos[1].DueDate != nil {
		t.Errorf("DueDate = %v, want nil", todos[1].DueDate)
	}
	if todos[0].IsCompleted {
		t.Error("new todo should start incomplete")
	}

	if err := s.SetCompleted(ctx, todos[0].ID, user.ID, true); err != nil {
		t.Fatalf("SetCompleted failed: %v", err)
	}
	todos, _ = s.ListForUser(ctx, user.ID)
	if !todos[0].IsCompleted {
		t.Error("completion flag not persisted")
	}

	if err := s.Remove(ctx, todos[1].ID, user.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	todos, _ = s.ListForUser(ctx, user.ID)
	if len(todos) != 1 {
		t.Errorf("got %d todos after delete, want 1", len(todos))
	}
}

func TestTodoOwnershipScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "owner@example.com")
	other := newTestUser(t, s, "other@example.com")

	if err := s.Insert(ctx, owner.ID, "private", types.PriorityLow, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	todos, err := s.ListForUser(ctx, owner.ID)
	if err != nil || len(todos) != 1 {
		t.Fatalf("ListForUser = %v, %v", todos, err)
	}
	id := todos[0].ID

	if got, err := s.ListForUser(ctx, other.ID); err != nil || len(got) != 0 {
		t.Errorf("foreign list = %v, %v, want empty", got, err)
	}
	if err := s.SetCompleted(ctx, id, other.ID, true); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("foreign update: error = %v, want ErrNotFound", err)
	}
	if err := s.Remove(ctx, id, other.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("foreign delete: error = %v, want ErrNotFound", err)
	}

	// the owner's record is untouched
	todos, _ = s.ListForUser(ctx, owner.ID)
	if len(todos) != 1 || todos[0].IsCompleted {
		t.Errorf("owner records changed: %v", todos)
	}
}

func TestSetCompletedNotFound(t *testing.T) {
	s := newTestStore(t)
	user := newTestUser(t, s, "a@example.com")

	if err := s.SetCompleted(context.Background(), 999, user.ID, true); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
