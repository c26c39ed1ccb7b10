package sqlite

import (
	"context"

	"github.com/agentdeck/agentdeck-server/internal/domain"
)

// SetAgentLinks replaces the labelled external links attached to an agent.
func (s *Store) SetAgentLinks(ctx context.Context, agentID int64, links []domain.AgentLink) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM agent_links WHERE agent_id = ?`, agentID); err != nil {
		return err
	}
	for _, link := range links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO agent_links (agent_id, label, url) VALUES (?, ?, ?)`,
			agentID, link.Label, link.URL); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListAgentLinks returns an agent's external links in insertion order.
func (s *Store) ListAgentLinks(ctx context.Context, agentID int64) ([]domain.AgentLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, label, url FROM agent_links
		WHERE agent_id = ? ORDER BY id`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.AgentLink{}
	for rows.Next() {
		var l domain.AgentLink
		if err := rows.Scan(&l.ID, &l.AgentID, &l.Label, &l.URL); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
