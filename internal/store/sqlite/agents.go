package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// marshalFeatures encodes an agent's feature list as the JSON array text
// stored in the features column. A nil list stores as the empty array.
func marshalFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// agentColumns is the ordered list of columns selected in agent queries.
// Must match the scan order in scanAgent.
const agentColumns = `id, name, slug, description, long_description, features, category_id,
	author_name, author_email, website, repository, documentation, logo_url, pricing,
	status, featured, verified, average_rating, ratings_count, upvotes_count, comments_count,
	visits_count, downloads_count, shares_count, trending, created_at, updated_at`

// scanAgent scans a sql.Row (or sql.Rows via its Scan method) into a domain.Agent.
func scanAgent(scanner interface{ Scan(dest ...any) error }) (*domain.Agent, error) {
	var a domain.Agent

	var (
		features  string
		createdAt string
		updatedAt string
		featured  int
		verified  int
	)

	err := scanner.Scan(
		&a.ID,
		&a.Name,
		&a.Slug,
		&a.Description,
		&a.LongDesc,
		&features,
		&a.CategoryID,
		&a.AuthorName,
		&a.AuthorEmail,
		&a.Website,
		&a.Repository,
		&a.Documentation,
		&a.LogoURL,
		&a.Pricing,
		&a.Status,
		&featured,
		&verified,
		&a.AverageRating,
		&a.RatingsCount,
		&a.UpvotesCount,
		&a.CommentsCount,
		&a.VisitsCount,
		&a.DownloadsCount,
		&a.SharesCount,
		&a.Trending,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Features = []string{}
	if features != "" {
		if err := json.Unmarshal([]byte(features), &a.Features); err != nil {
			return nil, err
		}
	}
	a.Featured = featured != 0
	a.Verified = verified != 0

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateAgent inserts a new agent and assigns its generated ID. An empty
// status defaults to approved.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateAgent(ctx context.Context, a *domain.Agent) error {
	if a.Status == "" {
		a.Status = domain.AgentStatusApproved
	}
	features, err := marshalFeatures(a.Features)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (
			name, slug, description, long_description, features, category_id,
			author_name, author_email, website, repository, documentation,
			logo_url, pricing, status, featured, verified, average_rating, ratings_count,
			upvotes_count, comments_count, visits_count, downloads_count, shares_count,
			trending, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name,
		a.Slug,
		a.Description,
		a.LongDesc,
		features,
		a.CategoryID,
		a.AuthorName,
		a.AuthorEmail,
		a.Website,
		a.Repository,
		a.Documentation,
		a.LogoURL,
		a.Pricing,
		a.Status,
		boolToInt(a.Featured),
		boolToInt(a.Verified),
		a.AverageRating,
		a.RatingsCount,
		a.UpvotesCount,
		a.CommentsCount,
		a.VisitsCount,
		a.DownloadsCount,
		a.SharesCount,
		a.Trending,
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

// GetAgent retrieves an agent by ID.
// Returns store.ErrNotFound if the agent does not exist.
func (s *Store) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)

	a, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAgentBySlug retrieves an agent by its slug.
// Returns store.ErrNotFound if the agent does not exist.
func (s *Store) GetAgentBySlug(ctx context.Context, slug string) (*domain.Agent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE slug = ?`, slug)

	a, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAgent persists all mutable fields of an agent.
// Returns store.ErrNotFound if the agent does not exist.
func (s *Store) UpdateAgent(ctx context.Context, a *domain.Agent) error {
	features, err := marshalFeatures(a.Features)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE agents SET
			name = ?, slug = ?, description = ?, long_description = ?, features = ?,
			category_id = ?, author_name = ?, author_email = ?, website = ?, repository = ?,
			documentation = ?, logo_url = ?, pricing = ?, status = ?, featured = ?,
			verified = ?, trending = ?, updated_at = ?
		WHERE id = ?`,
		a.Name,
		a.Slug,
		a.Description,
		a.LongDesc,
		features,
		a.CategoryID,
		a.AuthorName,
		a.AuthorEmail,
		a.Website,
		a.Repository,
		a.Documentation,
		a.LogoURL,
		a.Pricing,
		a.Status,
		boolToInt(a.Featured),
		boolToInt(a.Verified),
		a.Trending,
		formatTime(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

// DeleteAgent removes an agent; FK cascades clean up tags, links,
// reviews, comments, votes, bookmarks, and metrics.
// Returns store.ErrNotFound if the agent does not exist.
func (s *Store) DeleteAgent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
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

// agentOrderBy maps the listing sort keys to ORDER BY clauses.
var agentOrderBy = map[string]string{
	store.SortNewest:   "created_at DESC",
	store.SortRating:   "average_rating DESC, ratings_count DESC",
	store.SortTrending: "trending DESC, upvotes_count DESC",
	store.SortPopular:  "upvotes_count DESC, visits_count DESC",
}

// buildAgentWhere assembles the WHERE clause for a listing filter.
func buildAgentWhere(f store.AgentFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			// Caller should short-circuit; keep the query valid regardless.
			conds = append(conds, "1 = 0")
		} else {
			placeholders := strings.Repeat("?, ", len(f.IDs))
			conds = append(conds, fmt.Sprintf("id IN (%s)", placeholders[:len(placeholders)-2]))
			for _, id := range f.IDs {
				args = append(args, id)
			}
		}
	}
	if f.CategoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.Featured {
		conds = append(conds, "featured = 1")
	}
	if f.Verified {
		conds = append(conds, "verified = 1")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListAgents returns a page of agents matching the filter, plus the total
// match count before pagination.
func (s *Store) ListAgents(ctx context.Context, f store.AgentFilter) ([]*domain.Agent, int64, error) {
	where, args := buildAgentWhere(f)

	var total int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM agents"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy, ok := agentOrderBy[f.Sort]
	if !ok {
		orderBy = agentOrderBy[store.SortNewest]
	}

	query := "SELECT " + agentColumns + " FROM agents" + where +
		" ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, 0, err
		}
		agents = append(agents, a)
	}
	return agents, total, rows.Err()
}

// SetRatingAggregate updates an agent's denormalized rating columns.
func (s *Store) SetRatingAggregate(ctx context.Context, agentID int64, average float64, count int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE agents SET average_rating = ?, ratings_count = ? WHERE id = ?`,
		average, count, agentID)
	return err
}
