package category

import (
	"context"
	"strings"

	"github.com/fkhayef/reimburse/pkg/apperror"
)

// Common errors
var (
	ErrCategoryNotFound = apperror.NotFound("CATEGORY_NOT_FOUND", "Category not found")
	ErrCategoryInactive = apperror.Validation("CATEGORY_INACTIVE", "Category is inactive")
	ErrNameTaken        = apperror.Validation("CATEGORY_EXISTS", "expense category with this name already exists.")
)

// Service handles category business logic
type Service struct {
	repo *Repository
}

// NewService creates a new category service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a category with a unique name
func (s *Service) Create(ctx context.Context, req *CreateCategoryRequest) (*Category, error) {
	return s.repo.Create(ctx, strings.TrimSpace(req.Name))
}

// GetByID retrieves a category by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// List retrieves the active categories
func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.ListActive(ctx)
}

// Update renames or (de)activates a category
func (s *Service) Update(ctx context.Context, id int64, req *UpdateCategoryRequest) (*Category, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	c, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// Delete soft deletes a category. Expenses keep referencing it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	inactive := false
	_, err := s.Update(ctx, id, &UpdateCategoryRequest{IsActive: &inactive})
	return err
}
