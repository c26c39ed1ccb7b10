package sqlite

import (
	"context"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// CreateSubscriber records a newsletter signup and assigns the generated ID.
// Returns store.ErrAlreadyExists on duplicate email.
func (s *Store) CreateSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers (email, source, created_at) VALUES (?, ?, ?)`,
		sub.Email, sub.Source, formatTime(sub.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	sub.ID, err = res.LastInsertId()
	return err
}

// CountSubscribers returns the number of recorded signups.
func (s *Store) CountSubscribers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&n)
	return n, err
}
