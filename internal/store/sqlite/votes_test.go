package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

func TestVoteLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cat := seedCategory(t, s, "coding")
	agent := seedAgent(t, s, cat.ID, "bot")

	now := time.Now().UTC()
	v := &domain.Vote{AgentID: agent.ID, UserID: "u1", CreatedAt: now}
	if err := s.CreateVote(ctx, v); err != nil {
		t.Fatalf("create vote: %v", err)
	}
	if v.ID == 0 {
		t.Fatal("expected generated vote ID")
	}

	got, err := s.GetAgent(ctx, agent.ID)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if got.UpvotesCount != 1 {
		t.Errorf("expected upvotes_count 1, got %d", got.UpvotesCount)
	}

	// Second vote by the same user is rejected and the counter is untouched.
	dup := &domain.Vote{AgentID: agent.ID, UserID: "u1", CreatedAt: now}
	if err := s.CreateVote(ctx, dup); err != store.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	got, _ = s.GetAgent(ctx, agent.ID)
	if got.UpvotesCount != 1 {
		t.Errorf("counter bumped by failed vote: %d", got.UpvotesCount)
	}

	has, err := s.HasVote(ctx, agent.ID, "u1")
	if err != nil || !has {
		t.Errorf("expected vote present, has=%v err=%v", has, err)
	}

	n, err := s.CountVotes(ctx, agent.ID)
	if err != nil || n != 1 {
		t.Errorf("expected 1 vote, got %d err=%v", n, err)
	}

	if err := s.DeleteVote(ctx, agent.ID, "u1"); err != nil {
		t.Fatalf("delete vote: %v", err)
	}
	got, _ = s.GetAgent(ctx, agent.ID)
	if got.UpvotesCount != 0 {
		t.Errorf("expected upvotes_count 0 after delete, got %d", got.UpvotesCount)
	}

	if err := s.DeleteVote(ctx, agent.ID, "u1"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBookmarkLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cat := seedCategory(t, s, "coding")
	a1 := seedAgent(t, s, cat.ID, "first")
	a2 := seedAgent(t, s, cat.ID, "second")

	base := time.Now().UTC().Add(-time.Hour)
	b1 := &domain.Bookmark{UserID: "u1", AgentID: a1.ID, CreatedAt: base}
	if err := s.CreateBookmark(ctx, b1); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}
	b2 := &domain.Bookmark{UserID: "u1", AgentID: a2.ID, CreatedAt: base.Add(time.Minute)}
	if err := s.CreateBookmark(ctx, b2); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	dup := &domain.Bookmark{UserID: "u1", AgentID: a1.ID, CreatedAt: base}
	if err := s.CreateBookmark(ctx, dup); err != store.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	list, err := s.ListBookmarks(ctx, "u1")
	if err != nil {
		t.Fatalf("list bookmarks: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(list))
	}
	if list[0].AgentID != a2.ID {
		t.Errorf("expected newest bookmark first")
	}
	if list[0].Agent.Name != "second" {
		t.Errorf("agent summary not joined: %+v", list[0].Agent)
	}

	// Deleting with the wrong user is a not-found, not a cross-user delete.
	if err := s.DeleteBookmark(ctx, b1.ID, "u2"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound for wrong user, got %v", err)
	}
	if err := s.DeleteBookmark(ctx, b1.ID, "u1"); err != nil {
		t.Fatalf("delete bookmark: %v", err)
	}

	list, _ = s.ListBookmarks(ctx, "u1")
	if len(list) != 1 {
		t.Errorf("expected 1 bookmark after delete, got %d", len(list))
	}
}
