package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fkhayef/reimburse/internal/database"
)

// Repository handles category data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new category repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new category
func (r *Repository) Create(ctx context.Context, name string) (*Category, error) {
	query := `
		INSERT INTO expense_categories (name, is_active)
		VALUES ($1, $2)
		RETURNING id, name, is_active
	`

	c := &Category{}
	if err := r.db.QueryRowContext(ctx, query, name, true).Scan(&c.ID, &c.Name, &c.IsActive); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// GetByID retrieves a category by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Category, error) {
	c := &Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, is_active FROM expense_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ListActive retrieves every active category ordered by name
func (r *Repository) ListActive(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, is_active FROM expense_categories WHERE is_active = $1 ORDER BY name`, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// Update modifies an existing category; nil fields keep their value
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateCategoryRequest) (*Category, error) {
	query := `
		UPDATE expense_categories
		SET name = COALESCE($2, name),
		    is_active = COALESCE($3, is_active)
		WHERE id = $1
		RETURNING id, name, is_active
	`

	c := &Category{}
	if err := r.db.QueryRowContext(ctx, query, id, req.Name, req.IsActive).Scan(&c.ID, &c.Name, &c.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if database.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}
