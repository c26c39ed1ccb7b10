package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

func seedUser(t *testing.T, s *Store, id, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID: id, Email: email, Name: "Test User",
		PasswordHash: "hash", CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "usr_1", "Alice@Example.com")

	got, err := s.GetUser(ctx, "usr_1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "Alice@Example.com" {
		t.Errorf("original email casing lost: %s", got.Email)
	}

	// Email lookup is case-insensitive.
	got, err = s.GetUserByEmail(ctx, "alice@example.COM")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("expected %s, got %s", u.ID, got.ID)
	}

	dup := &domain.User{
		ID: "usr_2", Email: "ALICE@example.com", PasswordHash: "h",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	if err := s.CreateUser(ctx, dup); err != store.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists for same email, got %v", err)
	}

	if _, err := s.GetUser(ctx, "missing"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "usr_1", "alice@example.com")
	seedUser(t, s, "usr_2", "bob@example.com")
	seedUser(t, s, "usr_3", "carol@other.org")

	users, total, err := s.ListUsers(ctx, store.UserFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if total != 3 || len(users) != 3 {
		t.Fatalf("expected 3 users, got total=%d len=%d", total, len(users))
	}

	users, total, err = s.ListUsers(ctx, store.UserFilter{Search: "example.com", Limit: 10})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("expected 2 matches, got total=%d len=%d", total, len(users))
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "usr_1", "alice@example.com")

	now := time.Now().UTC()
	sess := &domain.Session{
		ID: "ses_1", UserID: "usr_1", Token: "tok_abc",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := s.GetSessionByToken(ctx, "tok_abc")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != "usr_1" {
		t.Errorf("wrong user: %s", got.UserID)
	}

	expired := &domain.Session{
		ID: "ses_2", UserID: "usr_1", Token: "tok_old",
		ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour),
	}
	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("create expired session: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired session removed, got %d", n)
	}

	if err := s.DeleteSession(ctx, "ses_1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := s.GetSessionByToken(ctx, "tok_abc"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
