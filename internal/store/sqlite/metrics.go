package sqlite

import (
	"context"

	"github.com/agentdeck/agentdeck-server/internal/domain"
)

// RecordVisit bumps the agent's visit counter for the given UTC day and
// the agent's lifetime visits column, in one transaction.
func (s *Store) RecordVisit(ctx context.Context, agentID int64, date string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO agent_metrics (agent_id, date, visits, downloads, shares)
		VALUES (?, ?, 1, 0, 0)
		ON CONFLICT(agent_id, date) DO UPDATE SET visits = visits + 1`,
		agentID, date); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE agents SET visits_count = visits_count + 1 WHERE id = ?`,
		agentID); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordShare bumps the agent's share counter for the given UTC day and
// the agent's lifetime shares column, in one transaction.
func (s *Store) RecordShare(ctx context.Context, agentID int64, date string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO agent_metrics (agent_id, date, visits, downloads, shares)
		VALUES (?, ?, 0, 0, 1)
		ON CONFLICT(agent_id, date) DO UPDATE SET shares = shares + 1`,
		agentID, date); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE agents SET shares_count = shares_count + 1 WHERE id = ?`,
		agentID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetMetricsSummary aggregates an agent's daily counters across all days.
func (s *Store) GetMetricsSummary(ctx context.Context, agentID int64) (domain.MetricsSummary, error) {
	var m domain.MetricsSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(visits), 0), COALESCE(SUM(downloads), 0), COALESCE(SUM(shares), 0)
		FROM agent_metrics WHERE agent_id = ?`, agentID).
		Scan(&m.TotalVisits, &m.TotalDownloads, &m.TotalShares)
	return m, err
}

// ListMetrics returns an agent's daily counter rows oldest first.
func (s *Store) ListMetrics(ctx context.Context, agentID int64) ([]*domain.AgentMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, date, visits, downloads, shares
		FROM agent_metrics WHERE agent_id = ? ORDER BY date`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []*domain.AgentMetric
	for rows.Next() {
		var m domain.AgentMetric
		if err := rows.Scan(&m.ID, &m.AgentID, &m.Date, &m.Visits,
			&m.Downloads, &m.Shares); err != nil {
			return nil, err
		}
		metrics = append(metrics, &m)
	}
	return metrics, rows.Err()
}
