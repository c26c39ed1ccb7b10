package sqlite

import (
	"context"
	"database/sql"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// commentColumns is the ordered list of columns selected in comment queries.
// Must match the scan order in scanComment.
const commentColumns = `id, agent_id, user_id, parent_id, body, created_at`

// scanComment scans a sql.Row (or sql.Rows via its Scan method) into a domain.Comment.
func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.Comment, error) {
	var c domain.Comment
	var parentID sql.NullInt64
	var createdAt string

	err := scanner.Scan(&c.ID, &c.AgentID, &c.UserID, &parentID, &c.Body, &createdAt)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a new comment and bumps the agent's lifetime
// comment counter in the same transaction.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO comments (agent_id, user_id, parent_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.AgentID, c.UserID, nullInt64(c.ParentID), c.Body, formatTime(c.CreatedAt),
	)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE agents SET comments_count = comments_count + 1 WHERE id = ?`,
		c.AgentID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// GetComment retrieves a comment by ID.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) GetComment(ctx context.Context, id int64) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)

	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns a page of an agent's comments oldest first, plus
// the total count.
func (s *Store) ListComments(ctx context.Context, agentID int64, limit, offset int) ([]*domain.Comment, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE agent_id = ?`, agentID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE agent_id = ?
		ORDER BY created_at ASC LIMIT ? OFFSET ?`, agentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	return comments, total, rows.Err()
}
