package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

func seedSubmission(t *testing.T, s *Store, status domain.SubmissionStatus, at time.Time) *domain.Submission {
	t.Helper()
	sub := &domain.Submission{
		Payload: domain.SubmissionPayload{
			Name:        "Test Agent",
			Description: "A test agent",
			CategoryID:  1,
			Email:       "author@example.com",
			Tags:        []string{"testing", "automation"},
		},
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := s.CreateSubmission(context.Background(), sub); err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	return sub
}

func TestCreateAndGetSubmission(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := seedSubmission(t, s, domain.SubmissionPending, time.Now().UTC())
	if sub.ID == 0 {
		t.Fatal("expected generated submission ID")
	}

	got, err := s.GetSubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if got.Payload.Name != "Test Agent" || got.Payload.Email != "author@example.com" {
		t.Errorf("payload roundtrip failed: %+v", got.Payload)
	}
	if len(got.Payload.Tags) != 2 {
		t.Errorf("expected 2 payload tags, got %d", len(got.Payload.Tags))
	}
	if got.Status != domain.SubmissionPending {
		t.Errorf("expected pending, got %s", got.Status)
	}
	if got.AgentID != nil || got.ReviewedAt != nil {
		t.Error("expected nil moderation fields on fresh submission")
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSubmission(context.Background(), 42); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSubmissionModeration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cat := seedCategory(t, s, "coding")
	agent := seedAgent(t, s, cat.ID, "approved-agent")
	sub := seedSubmission(t, s, domain.SubmissionPending, time.Now().UTC())

	now := time.Now().UTC()
	sub.Status = domain.SubmissionApproved
	sub.AgentID = &agent.ID
	sub.ReviewedBy = "admin@example.com"
	sub.ReviewedAt = &now
	sub.UpdatedAt = now
	if err := s.UpdateSubmission(ctx, sub); err != nil {
		t.Fatalf("update submission: %v", err)
	}

	got, err := s.GetSubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if got.Status != domain.SubmissionApproved {
		t.Errorf("expected approved, got %s", got.Status)
	}
	if got.AgentID == nil || *got.AgentID != agent.ID {
		t.Errorf("agent link not persisted: %+v", got.AgentID)
	}
	if got.ReviewedAt == nil || got.ReviewedBy != "admin@example.com" {
		t.Errorf("review metadata not persisted: %+v", got)
	}
}

func TestListSubmissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	seedSubmission(t, s, domain.SubmissionPending, base)
	seedSubmission(t, s, domain.SubmissionApproved, base.Add(time.Minute))
	newest := seedSubmission(t, s, domain.SubmissionPending, base.Add(2*time.Minute))

	t.Run("all newest first", func(t *testing.T) {
		subs, total, err := s.ListSubmissions(ctx, store.SubmissionFilter{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 3 || len(subs) != 3 {
			t.Fatalf("expected 3, got total=%d len=%d", total, len(subs))
		}
		if subs[0].ID != newest.ID {
			t.Errorf("expected newest first")
		}
	})

	t.Run("status filter", func(t *testing.T) {
		subs, total, err := s.ListSubmissions(ctx, store.SubmissionFilter{
			Status: string(domain.SubmissionPending), Limit: 10,
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 2 || len(subs) != 2 {
			t.Fatalf("expected 2 pending, got total=%d len=%d", total, len(subs))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		subs, total, err := s.ListSubmissions(ctx, store.SubmissionFilter{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 3 || len(subs) != 1 {
			t.Errorf("expected total=3 len=1, got total=%d len=%d", total, len(subs))
		}
	})
}
