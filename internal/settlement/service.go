package settlement

import (
	"context"
	"fmt"

	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/employee"
	"github.com/fkhayef/reimburse/internal/expense"
	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/pkg/apperror"
)

// Common errors
var (
	ErrPaymentNotFound  = apperror.NotFound("PAYMENT_NOT_FOUND", "Payment not found")
	ErrAlreadyPaid      = apperror.Validation("EXPENSE_ALREADY_PAID", "Expense already fully paid")
	ErrInvalidAmount    = apperror.Validation("INVALID_AMOUNT", "Amount must be greater than zero")
	ErrExceedsRemaining = apperror.Validation("EXCEEDS_REMAINING", "Payment exceeds remaining balance")
	ErrPaidExpense      = apperror.Validation("EXPENSE_PAID", "Cannot delete payment for paid expense")
)

// Service applies and reverses payments against expense balances
type Service struct {
	db        *database.DB
	repo      *Repository
	expenses  *expense.Repository
	employees *employee.Repository

	// interleave, when set, runs inside the transaction between the expense read and
	// the guarded balance write
	interleave func(ctx context.Context, tx *database.Tx, expenseID int64) error
}

// NewService creates a new settlement service
func NewService(db *database.DB, repo *Repository, expenses *expense.Repository, employees *employee.Repository) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		expenses:  expenses,
		employees: employees,
	}
}

// checkPayable applies the payment preconditions in order: not PAID, positive amount,
// within the remaining balance
func checkPayable(e *expense.Expense, amount money.Amount) error {
	if e.IsPaid() {
		return ErrAlreadyPaid
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount > e.Remaining() {
		return ErrExceedsRemaining
	}
	return nil
}

// ApplyPayment records a payment and moves the expense balance and status with it.
// Everything happens in one transaction; a rejected payment changes nothing.
func (s *Service) ApplyPayment(ctx context.Context, actorID int64, req *CreatePaymentRequest) (*Payment, *expense.Expense, error) {
	var paymentID int64

	err := database.WithTx(ctx, s.db, func(tx *database.Tx) error {
		e, err := s.expenses.Get(ctx, tx, req.ExpenseID)
		if err != nil {
			return err
		}
		if e == nil {
			return expense.ErrExpenseNotFound
		}
		if err := checkPayable(e, req.Amount); err != nil {
			return err
		}
		if err := s.runInterleave(ctx, tx, e.ID); err != nil {
			return err
		}

		balance, ok, err := s.repo.AddPaid(ctx, tx, e.ID, req.Amount, actorID)
		if err != nil {
			return err
		}
		if !ok {
			// Another payment moved the balance after it was read
			return s.rejection(ctx, tx, e.ID, req.Amount)
		}

		if err := s.repo.SetStatus(ctx, tx, e.ID, expense.DeriveStatus(balance.Paid, balance.Requested)); err != nil {
			return err
		}

		paymentID, err = s.repo.Create(ctx, tx, e.ID, req.Amount, actorID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	p, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	e, err := s.expenses.GetByID(ctx, req.ExpenseID)
	if err != nil {
		return nil, nil, err
	}
	if e == nil {
		return nil, nil, expense.ErrExpenseNotFound
	}
	return p, e, nil
}

func (s *Service) runInterleave(ctx context.Context, tx *database.Tx, expenseID int64) error {
	if s.interleave == nil {
		return nil
	}
	return s.interleave(ctx, tx, expenseID)
}

// rejection re-reads the expense after a guarded update matched nothing and reports why
func (s *Service) rejection(ctx context.Context, q database.Querier, expenseID int64, amount money.Amount) error {
	current, err := s.expenses.Get(ctx, q, expenseID)
	if err != nil {
		return err
	}
	if current == nil {
		return expense.ErrExpenseNotFound
	}
	if err := checkPayable(current, amount); err != nil {
		return err
	}
	return ErrExceedsRemaining
}

// DeletePayment removes a payment and reverses its amount on the expense.
// Payments of a PAID expense cannot be deleted.
func (s *Service) DeletePayment(ctx context.Context, actorID, id int64) error {
	return database.WithTx(ctx, s.db, func(tx *database.Tx) error {
		p, err := s.repo.Get(ctx, tx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrPaymentNotFound
		}

		e, err := s.expenses.Get(ctx, tx, p.ExpenseID)
		if err != nil {
			return err
		}
		if e == nil {
			return ErrPaymentNotFound
		}
		if e.IsPaid() {
			return ErrPaidExpense
		}
		if err := s.runInterleave(ctx, tx, e.ID); err != nil {
			return err
		}

		deleted, err := s.repo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrPaymentNotFound
		}

		balance, ok, err := s.repo.SubtractPaid(ctx, tx, e.ID, p.Amount, actorID)
		if err != nil {
			return err
		}
		if !ok {
			current, err := s.expenses.Get(ctx, tx, e.ID)
			if err != nil {
				return err
			}
			if current != nil && current.IsPaid() {
				return ErrPaidExpense
			}
			return fmt.Errorf("failed to reverse payment %d: expense %d balance is below the payment amount", id, e.ID)
		}

		return s.repo.SetStatus(ctx, tx, e.ID, expense.DeriveStatus(balance.Paid, balance.Requested))
	})
}

// GetByID retrieves a payment by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// List retrieves payments newest first with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Payment, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// ListByEmployee retrieves every payment made to an active employee, oldest first
func (s *Service) ListByEmployee(ctx context.Context, employeeID int64) ([]*Payment, error) {
	e, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if e == nil || !e.IsActive {
		return nil, employee.ErrEmployeeNotFound
	}
	return s.repo.ListByEmployee(ctx, employeeID)
}
