package sqlite

import (
	"context"
	"time"

	"github.com/agentdeck/agentdeck-server/internal/domain"
)

// GetAdminStats assembles the aggregate dashboard snapshot. now anchors
// the trailing 7- and 30-day windows.
func (s *Store) GetAdminStats(ctx context.Context, now time.Time) (*domain.AdminStats, error) {
	var stats domain.AdminStats

	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM agents`, &stats.TotalAgents},
		{`SELECT COUNT(*) FROM agents WHERE status = 'approved'`, &stats.ApprovedAgents},
		{`SELECT COUNT(*) FROM bookmarks`, &stats.TotalBookmarks},
		{`SELECT COUNT(*) FROM reviews`, &stats.TotalReviews},
		{`SELECT COUNT(*) FROM comments`, &stats.TotalComments},
		{`SELECT COUNT(*) FROM votes`, &stats.TotalVotes},
		{`SELECT COUNT(*) FROM submissions`, &stats.TotalSubmissions},
		{`SELECT COUNT(*) FROM submissions WHERE status = 'pending'`, &stats.PendingSubmissions},
		{`SELECT COUNT(*) FROM submissions WHERE status = 'approved'`, &stats.ApprovedSubmissions},
		{`SELECT COUNT(*) FROM submissions WHERE status = 'rejected'`, &stats.RejectedSubmissions},
		{`SELECT COALESCE(SUM(visits), 0) FROM agent_metrics`, &stats.TotalVisits},
		{`SELECT COALESCE(SUM(downloads), 0) FROM agent_metrics`, &stats.TotalDownloads},
		{`SELECT COALESCE(SUM(shares), 0) FROM agent_metrics`, &stats.TotalShares},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	since7 := formatTime(now.AddDate(0, 0, -7))
	since30 := formatTime(now.AddDate(0, 0, -30))

	windows := []struct {
		query string
		since string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM users WHERE created_at >= ?`, since7, &stats.NewUsersLast7Days},
		{`SELECT COUNT(*) FROM agents WHERE created_at >= ?`, since7, &stats.NewAgentsLast7Days},
		{`SELECT COUNT(*) FROM submissions WHERE created_at >= ?`, since7, &stats.NewSubmissionsLast7Days},
		{`SELECT COUNT(*) FROM reviews WHERE created_at >= ?`, since7, &stats.NewReviewsLast7Days},
		{`SELECT COUNT(*) FROM users WHERE created_at >= ?`, since30, &stats.NewUsersLast30Days},
		{`SELECT COUNT(*) FROM agents WHERE created_at >= ?`, since30, &stats.NewAgentsLast30Days},
	}
	for _, w := range windows {
		if err := s.db.QueryRowContext(ctx, w.query, w.since).Scan(w.dest); err != nil {
			return nil, err
		}
	}

	return &stats, nil
}
