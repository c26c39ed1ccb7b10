package sqlite

import (
	"context"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// CreateVote records an upvote and bumps the agent's denormalized counter
// in the same transaction.
// Returns store.ErrAlreadyExists if the user has already voted on the agent.
func (s *Store) CreateVote(ctx context.Context, v *domain.Vote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO votes (agent_id, user_id, created_at) VALUES (?, ?, ?)`,
		v.AgentID, v.UserID, formatTime(v.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	v.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE agents SET upvotes_count = upvotes_count + 1 WHERE id = ?`,
		v.AgentID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteVote removes a user's upvote and decrements the agent's counter
// in the same transaction.
// Returns store.ErrNotFound if no vote exists.
func (s *Store) DeleteVote(ctx context.Context, agentID int64, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM votes WHERE agent_id = ? AND user_id = ?`, agentID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE agents SET upvotes_count = MAX(upvotes_count - 1, 0)
		WHERE id = ?`, agentID); err != nil {
		return err
	}
	return tx.Commit()
}

// HasVote reports whether the user has upvoted the agent.
func (s *Store) HasVote(ctx context.Context, agentID int64, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE agent_id = ? AND user_id = ?`,
		agentID, userID).Scan(&n)
	return n > 0, err
}

// CountVotes returns the number of upvotes on an agent.
func (s *Store) CountVotes(ctx context.Context, agentID int64) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE agent_id = ?`, agentID).Scan(&n)
	return n, err
}
