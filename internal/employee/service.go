package employee

import (
	"context"
	"strings"

	"github.com/fkhayef/reimburse/pkg/apperror"
)

// Common errors
var (
	ErrEmployeeNotFound = apperror.NotFound("EMPLOYEE_NOT_FOUND", "Employee not found")
	ErrEmployeeInactive = apperror.Validation("EMPLOYEE_INACTIVE", "Employee is inactive")
)

// Service handles employee business logic
type Service struct {
	repo *Repository
}

// NewService creates a new employee service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers an employee created by actorID
func (s *Service) Create(ctx context.Context, actorID int64, req *CreateEmployeeRequest) (*Employee, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Department = strings.TrimSpace(req.Department)
	req.Designation = strings.TrimSpace(req.Designation)
	return s.repo.Create(ctx, req, actorID)
}

// GetByID retrieves an employee by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

// GetActive retrieves an employee and treats a deactivated one as missing
func (s *Service) GetActive(ctx context.Context, id int64) (*Employee, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsActive {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

// List retrieves active employees with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Employee, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListActive(ctx, perPage, offset)
}

// Update modifies an existing employee
func (s *Service) Update(ctx context.Context, id int64, req *UpdateEmployeeRequest) (*Employee, error) {
	e, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

// Delete soft deletes an employee; its expenses stay untouched
func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrEmployeeNotFound
	}
	return nil
}
