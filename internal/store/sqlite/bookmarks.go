package sqlite

import (
	"context"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// CreateBookmark saves an agent for a user and assigns the generated ID.
// Returns store.ErrAlreadyExists if the bookmark already exists.
func (s *Store) CreateBookmark(ctx context.Context, b *domain.Bookmark) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (user_id, agent_id, created_at) VALUES (?, ?, ?)`,
		b.UserID, b.AgentID, formatTime(b.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

// DeleteBookmark removes a user's bookmark by bookmark ID. The user ID
// guards against deleting another user's bookmark.
// Returns store.ErrNotFound if no matching bookmark exists.
func (s *Store) DeleteBookmark(ctx context.Context, id int64, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = ? AND user_id = ?`, id, userID)
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
	return nil
}

// ListBookmarks returns a user's bookmarks newest first, each joined with
// its agent's listing summary.
func (s *Store) ListBookmarks(ctx context.Context, userID string) ([]*domain.BookmarkWithAgent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.agent_id, b.created_at,
			a.id, a.name, a.slug, a.description, a.logo_url, a.average_rating, a.upvotes_count
		FROM bookmarks b
		JOIN agents a ON a.id = b.agent_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []*domain.BookmarkWithAgent
	for rows.Next() {
		var bw domain.BookmarkWithAgent
		var createdAt string
		if err := rows.Scan(
			&bw.ID, &bw.UserID, &bw.AgentID, &createdAt,
			&bw.Agent.ID, &bw.Agent.Name, &bw.Agent.Slug, &bw.Agent.Description,
			&bw.Agent.LogoURL, &bw.Agent.AverageRating, &bw.Agent.UpvotesCount,
		); err != nil {
			return nil, err
		}
		bw.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, &bw)
	}
	return bookmarks, rows.Err()
}
