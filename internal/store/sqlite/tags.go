package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, slug, created_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag
	var createdAt string

	err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &createdAt)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a new tag and assigns its generated ID.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, slug, created_at) VALUES (?, ?, ?)`,
		t.Name, t.Slug, formatTime(t.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	t.ID, err = res.LastInsertId()
	return err
}

// GetTagBySlug retrieves a tag by its slug.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE slug = ?`, slug)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetOrCreateTag looks up a tag by slug, creating it when absent.
func (s *Store) GetOrCreateTag(ctx context.Context, t *domain.Tag) error {
	existing, err := s.GetTagBySlug(ctx, t.Slug)
	if err == nil {
		*t = *existing
		return nil
	}
	if err != store.ErrNotFound {
		return err
	}
	err = s.CreateTag(ctx, t)
	if err == store.ErrAlreadyExists {
		// Lost a race with a concurrent insert.
		existing, getErr := s.GetTagBySlug(ctx, t.Slug)
		if getErr != nil {
			return getErr
		}
		*t = *existing
		return nil
	}
	return err
}

// ListTags returns all tags ordered by usage (most used first), each
// annotated with how many agents carry it.
func (s *Store) ListTags(ctx context.Context) ([]*domain.TagWithUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.created_at,
			(SELECT COUNT(*) FROM agent_tags at WHERE at.tag_id = t.id) AS usage_count
		FROM tags t
		ORDER BY usage_count DESC, t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.TagWithUsage
	for rows.Next() {
		var tu domain.TagWithUsage
		var createdAt string
		if err := rows.Scan(&tu.ID, &tu.Name, &tu.Slug, &createdAt, &tu.UsageCount); err != nil {
			return nil, err
		}
		tu.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		tags = append(tags, &tu)
	}
	return tags, rows.Err()
}

// SetAgentTags replaces an agent's tag assignments.
func (s *Store) SetAgentTags(ctx context.Context, agentID int64, tagIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM agent_tags WHERE agent_id = ?`, agentID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO agent_tags (agent_id, tag_id) VALUES (?, ?)`,
			agentID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListAgentTags returns the tags assigned to an agent, ordered by name.
func (s *Store) ListAgentTags(ctx context.Context, agentID int64) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN agent_tags at ON at.tag_id = t.id
		WHERE at.agent_id = ?
		ORDER BY t.name`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListAgentIDsByTag returns the IDs of agents carrying the tag with the
// given slug. Returns an empty slice for an unknown tag.
func (s *Store) ListAgentIDsByTag(ctx context.Context, tagSlug string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT at.agent_id
		FROM agent_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE t.slug = ?`, tagSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListAgentIDsByTagID returns the IDs of agents carrying the tag with the
// given ID. Returns an empty slice for an unknown tag.
func (s *Store) ListAgentIDsByTagID(ctx context.Context, tagID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT agent_id FROM agent_tags WHERE tag_id = ?`, tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
