package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/expense"
	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/internal/user"
)

const selectPayment = `
	SELECT p.id, p.expense_id, e.employee_id, emp.full_name, p.amount, p.paid_at, p.created_by, u.username
	FROM payments p
	JOIN expenses e ON e.id = p.expense_id
	JOIN employees emp ON emp.employee_id = e.employee_id
	LEFT JOIN users u ON u.id = p.created_by
`

// Repository persists payments and owns every write to an expense's paid amount and status
type Repository struct {
	db *database.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(row scanner) (*Payment, error) {
	var (
		p           Payment
		createdBy   sql.NullInt64
		creatorName sql.NullString
	)
	err := row.Scan(&p.ID, &p.ExpenseID, &p.EmployeeID, &p.EmployeeName, &p.Amount, &p.PaidAt, &createdBy, &creatorName)
	if err != nil {
		return nil, err
	}
	p.CreatedBy = user.NewRef(createdBy, creatorName)
	return &p, nil
}

// Create inserts a payment and returns its id
func (r *Repository) Create(ctx context.Context, q database.Querier, expenseID int64, amount money.Amount, actorID int64) (int64, error) {
	query := `
		INSERT INTO payments (expense_id, amount, paid_at, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	if err := q.QueryRowContext(ctx, query, expenseID, amount, database.Now(), actorID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create payment: %w", err)
	}
	return id, nil
}

// Get retrieves a payment using q, which may be a transaction
func (r *Repository) Get(ctx context.Context, q database.Querier, id int64) (*Payment, error) {
	p, err := scanPayment(q.QueryRowContext(ctx, selectPayment+`WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// GetByID retrieves a payment by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	return r.Get(ctx, r.db, id)
}

// List retrieves payments newest first
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Payment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	payments, err := r.query(ctx, selectPayment+`ORDER BY p.paid_at DESC, p.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// ListByEmployee retrieves every payment toward an employee's expenses oldest first
func (r *Repository) ListByEmployee(ctx context.Context, employeeID int64) ([]*Payment, error) {
	return r.query(ctx, selectPayment+`WHERE e.employee_id = $1 ORDER BY p.paid_at, p.id`, employeeID)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// Delete removes a payment. It reports false when the payment does not exist.
func (r *Repository) Delete(ctx context.Context, q database.Querier, id int64) (bool, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete payment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Balance is an expense's paid and requested amounts after a balance write
type Balance struct {
	Paid      money.Amount
	Requested money.Amount
}

// AddPaid adds amount to the expense balance in place, but only while the expense is
// not PAID and the result stays within the requested amount. ok is false when the
// guard matched no row.
func (r *Repository) AddPaid(ctx context.Context, q database.Querier, expenseID int64, amount money.Amount, actorID int64) (b Balance, ok bool, err error) {
	query := `
		UPDATE expenses
		SET amount_paid = amount_paid + $2,
		    updated_by = $3,
		    updated_at = $4
		WHERE id = $1 AND status <> $5 AND amount_paid + $2 <= amount_requested
		RETURNING amount_paid, amount_requested
	`
	return r.updateBalance(ctx, q, query, expenseID, amount, actorID)
}

// SubtractPaid reverses amount from the expense balance in place, but only while the
// expense is not PAID and the result stays non-negative. ok is false when the guard
// matched no row.
func (r *Repository) SubtractPaid(ctx context.Context, q database.Querier, expenseID int64, amount money.Amount, actorID int64) (b Balance, ok bool, err error) {
	query := `
		UPDATE expenses
		SET amount_paid = amount_paid - $2,
		    updated_by = $3,
		    updated_at = $4
		WHERE id = $1 AND status <> $5 AND amount_paid >= $2
		RETURNING amount_paid, amount_requested
	`
	return r.updateBalance(ctx, q, query, expenseID, amount, actorID)
}

func (r *Repository) updateBalance(ctx context.Context, q database.Querier, query string, expenseID int64, amount money.Amount, actorID int64) (Balance, bool, error) {
	var b Balance
	err := q.QueryRowContext(ctx, query, expenseID, amount, actorID, database.Now(), expense.StatusPaid).Scan(&b.Paid, &b.Requested)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Balance{}, false, nil
		}
		return Balance{}, false, fmt.Errorf("failed to update expense balance: %w", err)
	}
	return b, true, nil
}

// SetStatus writes the settlement state of an expense
func (r *Repository) SetStatus(ctx context.Context, q database.Querier, expenseID int64, status expense.Status) error {
	if _, err := q.ExecContext(ctx, `UPDATE expenses SET status = $2 WHERE id = $1`, expenseID, status); err != nil {
		return fmt.Errorf("failed to update expense status: %w", err)
	}
	return nil
}
