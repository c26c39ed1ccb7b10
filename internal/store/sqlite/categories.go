package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// categoryColumns is the ordered list of columns selected in category queries.
// Must match the scan order in scanCategory.
const categoryColumns = `id, name, slug, description, icon, created_at`

// scanCategory scans a sql.Row (or sql.Rows via its Scan method) into a domain.Category.
func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category
	var createdAt string

	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &createdAt)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a new category and assigns its generated ID.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, slug, description, icon, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Slug, c.Description, c.Icon, formatTime(c.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

// GetCategory retrieves a category by ID.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCategoryBySlug retrieves a category by its slug.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories ordered by name, each annotated
// with its agent count.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.CategoryWithCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.icon, c.created_at,
			(SELECT COUNT(*) FROM agents a WHERE a.category_id = c.id) AS agent_count
		FROM categories c
		ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.CategoryWithCount
	for rows.Next() {
		var cc domain.CategoryWithCount
		var createdAt string
		if err := rows.Scan(&cc.ID, &cc.Name, &cc.Slug, &cc.Description, &cc.Icon,
			&createdAt, &cc.AgentCount); err != nil {
			return nil, err
		}
		cc.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		categories = append(categories, &cc)
	}
	return categories, rows.Err()
}
