package sqlite

import (
	"context"
	"database/sql"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// reviewColumns is the ordered list of columns selected in review queries.
// Must match the scan order in scanReview.
const reviewColumns = `id, agent_id, user_id, rating, title, body, created_at, updated_at`

// scanReview scans a sql.Row (or sql.Rows via its Scan method) into a domain.Review.
func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var r domain.Review

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.AgentID,
		&r.UserID,
		&r.Rating,
		&r.Title,
		&r.Body,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateReview inserts a new review and assigns its generated ID.
func (s *Store) CreateReview(ctx context.Context, r *domain.Review) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (agent_id, user_id, rating, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.AgentID, r.UserID, r.Rating, r.Title, r.Body,
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
	)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// GetReviewByAgentUser retrieves the latest review a user left on an agent.
// Returns store.ErrNotFound if none exists.
func (s *Store) GetReviewByAgentUser(ctx context.Context, agentID int64, userID string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		WHERE agent_id = ? AND user_id = ?
		ORDER BY created_at DESC LIMIT 1`, agentID, userID)

	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReview persists a review's rating, title, and body.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) UpdateReview(ctx context.Context, r *domain.Review) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET rating = ?, title = ?, body = ?, updated_at = ?
		WHERE id = ?`,
		r.Rating, r.Title, r.Body, formatTime(r.UpdatedAt), r.ID,
	)
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

// ListReviews returns a page of an agent's reviews plus the total count.
// Sort is newest (default) or rating (highest first).
func (s *Store) ListReviews(ctx context.Context, agentID int64, sort string, limit, offset int) ([]*domain.Review, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE agent_id = ?`, agentID).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	if sort == store.ReviewSortRating {
		orderBy = "rating DESC, created_at DESC"
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE agent_id = ?
		ORDER BY `+orderBy+` LIMIT ? OFFSET ?`, agentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, r)
	}
	return reviews, total, rows.Err()
}

// RecomputeRatingAggregate refreshes an agent's denormalized average_rating
// and ratings_count from its reviews.
func (s *Store) RecomputeRatingAggregate(ctx context.Context, agentID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE agents SET
			average_rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE agent_id = ?), 0),
			ratings_count = (SELECT COUNT(*) FROM reviews WHERE agent_id = ?)
		WHERE id = ?`,
		agentID, agentID, agentID)
	return err
}
