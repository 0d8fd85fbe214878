package expense

import (
	"context"

	"github.com/fkhayef/reimburse/internal/category"
	"github.com/fkhayef/reimburse/internal/employee"
	"github.com/fkhayef/reimburse/pkg/apperror"
)

// Common errors
var (
	ErrExpenseNotFound = apperror.NotFound("EXPENSE_NOT_FOUND", "Expense not found")
	ErrExpensePaid     = apperror.Validation("EXPENSE_PAID", "Paid expense cannot be modified")
	ErrInvalidAmount   = apperror.Validation("INVALID_AMOUNT", "Amount requested must be greater than 0")
)

// Service handles expense business logic
type Service struct {
	repo       *Repository
	employees  *employee.Repository
	categories *category.Repository
}

// NewService creates a new expense service
func NewService(repo *Repository, employees *employee.Repository, categories *category.Repository) *Service {
	return &Service{
		repo:       repo,
		employees:  employees,
		categories: categories,
	}
}

// Create records a new expense for an active employee and category
func (s *Service) Create(ctx context.Context, actorID int64, req *CreateExpenseRequest) (*Expense, error) {
	if !req.AmountRequested.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := s.checkEmployee(ctx, req.EmployeeID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, req, actorID)
}

func (s *Service) checkEmployee(ctx context.Context, id int64) error {
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return employee.ErrEmployeeNotFound
	}
	if !e.IsActive {
		return employee.ErrEmployeeInactive
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, id int64) error {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return category.ErrCategoryNotFound
	}
	if !c.IsActive {
		return category.ErrCategoryInactive
	}
	return nil
}

// GetByID retrieves an expense with its payments
func (s *Service) GetByID(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// List retrieves expenses matching f with pagination
func (s *Service) List(ctx context.Context, f Filter, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, f, perPage, offset)
}

// ListByEmployee returns an active employee and all of its expenses
func (s *Service) ListByEmployee(ctx context.Context, employeeID int64) (*employee.Employee, []*Expense, error) {
	e, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	if e == nil || !e.IsActive {
		return nil, nil, employee.ErrEmployeeNotFound
	}

	expenses, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	return e, expenses, nil
}

// Update reassigns employee or category of an unpaid expense
func (s *Service) Update(ctx context.Context, actorID, id int64, req *UpdateExpenseRequest) (*Expense, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsPaid() {
		return nil, ErrExpensePaid
	}

	if req.EmployeeID != nil && *req.EmployeeID != existing.EmployeeID {
		if err := s.checkEmployee(ctx, *req.EmployeeID); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil && *req.CategoryID != existing.CategoryID {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, req, actorID)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Settled or removed since it was read
		return nil, s.missingOrPaid(ctx, id)
	}

	return s.GetByID(ctx, id)
}

// Delete removes an unpaid expense and its payments
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return s.missingOrPaid(ctx, id)
	}
	return nil
}

func (s *Service) missingOrPaid(ctx context.Context, id int64) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrExpenseNotFound
	}
	return ErrExpensePaid
}
