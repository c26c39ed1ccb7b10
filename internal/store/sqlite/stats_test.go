package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck-server/internal/domain"
)

func TestGetAdminStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	cat := seedCategory(t, s, "coding")
	agent := seedAgent(t, s, cat.ID, "bot")

	agent.Verified = true
	agent.UpdatedAt = now
	if err := s.UpdateAgent(ctx, agent); err != nil {
		t.Fatalf("update agent: %v", err)
	}

	// A pending listing counts toward totals but not approved agents.
	draft := &domain.Agent{
		Name: "draft", Slug: "draft", Description: "d", CategoryID: cat.ID,
		Status: domain.AgentStatusPending, CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateAgent(ctx, draft); err != nil {
		t.Fatalf("create draft agent: %v", err)
	}

	seedUser(t, s, "usr_1", "alice@example.com")
	seedSubmission(t, s, domain.SubmissionPending, now)
	seedSubmission(t, s, domain.SubmissionApproved, now.AddDate(0, 0, -10))

	if err := s.CreateReview(ctx, &domain.Review{
		AgentID: agent.ID, UserID: "usr_1", Rating: 5, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create review: %v", err)
	}
	if err := s.CreateComment(ctx, &domain.Comment{
		AgentID: agent.ID, UserID: "guest", Body: "nice", CreatedAt: now,
	}); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if err := s.CreateVote(ctx, &domain.Vote{
		AgentID: agent.ID, UserID: "usr_1", CreatedAt: now,
	}); err != nil {
		t.Fatalf("create vote: %v", err)
	}
	if err := s.CreateBookmark(ctx, &domain.Bookmark{
		UserID: "usr_1", AgentID: agent.ID, CreatedAt: now,
	}); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}
	if err := s.RecordVisit(ctx, agent.ID, now.Format("2006-01-02")); err != nil {
		t.Fatalf("record visit: %v", err)
	}
	if err := s.RecordShare(ctx, agent.ID, now.Format("2006-01-02")); err != nil {
		t.Fatalf("record share: %v", err)
	}

	stats, err := s.GetAdminStats(ctx, now)
	if err != nil {
		t.Fatalf("get admin stats: %v", err)
	}

	if stats.TotalUsers != 1 || stats.TotalAgents != 2 || stats.ApprovedAgents != 1 {
		t.Errorf("entity counts wrong: %+v", stats)
	}
	if stats.TotalBookmarks != 1 || stats.TotalReviews != 1 || stats.TotalComments != 1 || stats.TotalVotes != 1 {
		t.Errorf("engagement counts wrong: %+v", stats)
	}
	if stats.TotalSubmissions != 2 || stats.PendingSubmissions != 1 ||
		stats.ApprovedSubmissions != 1 || stats.RejectedSubmissions != 0 {
		t.Errorf("submission counts wrong: %+v", stats)
	}
	if stats.TotalVisits != 1 || stats.TotalShares != 1 || stats.TotalDownloads != 0 {
		t.Errorf("metric totals wrong: %+v", stats)
	}

	// The 10-day-old submission falls outside the 7-day window but inside 30 days.
	if stats.NewSubmissionsLast7Days != 1 {
		t.Errorf("expected 1 new submission in 7 days, got %d", stats.NewSubmissionsLast7Days)
	}
	if stats.NewUsersLast7Days != 1 || stats.NewAgentsLast7Days != 2 || stats.NewReviewsLast7Days != 1 {
		t.Errorf("7-day windows wrong: %+v", stats)
	}
	if stats.NewUsersLast30Days != 1 || stats.NewAgentsLast30Days != 2 {
		t.Errorf("30-day windows wrong: %+v", stats)
	}
}
