package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/user"
)

const selectExpense = `
	SELECT e.id, e.employee_id, emp.full_name, e.category_id, c.name,
	       e.amount_requested, e.amount_paid, e.status,
	       e.created_by, cu.username, e.updated_by, uu.username,
	       e.created_at, e.updated_at
	FROM expenses e
	JOIN employees emp ON emp.employee_id = e.employee_id
	JOIN expense_categories c ON c.id = e.category_id
	LEFT JOIN users cu ON cu.id = e.created_by
	LEFT JOIN users uu ON uu.id = e.updated_by
`

// Repository handles expense data persistence. It never writes amount_paid or
// status beyond their initial values; the settlement engine owns those columns.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*Expense, error) {
	var (
		e                        Expense
		createdBy, updatedBy     sql.NullInt64
		creatorName, updaterName sql.NullString
	)
	err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.EmployeeName,
		&e.CategoryID,
		&e.CategoryName,
		&e.AmountRequested,
		&e.AmountPaid,
		&e.Status,
		&createdBy,
		&creatorName,
		&updatedBy,
		&updaterName,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedBy = user.NewRef(createdBy, creatorName)
	e.UpdatedBy = user.NewRef(updatedBy, updaterName)
	e.Payments = []*PaymentSummary{}
	return &e, nil
}

// Create inserts a new UNPAID expense with nothing paid
func (r *Repository) Create(ctx context.Context, req *CreateExpenseRequest, actorID int64) (*Expense, error) {
	query := `
		INSERT INTO expenses (employee_id, category_id, amount_requested, amount_paid, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5, $6, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		req.EmployeeID,
		req.CategoryID,
		req.AmountRequested,
		StatusUnpaid,
		actorID,
		database.Now(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Get retrieves an expense without its payments using q, which may be a transaction
func (r *Repository) Get(ctx context.Context, q database.Querier, id int64) (*Expense, error) {
	e, err := scanExpense(q.QueryRowContext(ctx, selectExpense+`WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// GetByID retrieves an expense with its payments
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	e, err := r.Get(ctx, r.db, id)
	if err != nil || e == nil {
		return nil, err
	}
	if err := r.attachPayments(ctx, []*Expense{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func whereClause(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.EmployeeID > 0 {
		args = append(args, f.EmployeeID)
		conds = append(conds, "e.employee_id = $"+strconv.Itoa(len(args)))
	}
	if !f.Range.IsZero() {
		start, end := f.Range.Bounds()
		args = append(args, start, end)
		conds = append(conds,
			"e.created_at >= $"+strconv.Itoa(len(args)-1),
			"e.created_at < $"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List retrieves expenses matching f newest first, with their payments
func (r *Repository) List(ctx context.Context, f Filter, limit, offset int) ([]*Expense, int, error) {
	where, args := whereClause(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses e`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	n := len(args)
	query := selectExpense + where + fmt.Sprintf(" ORDER BY e.created_at DESC, e.id DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	expenses, err := r.query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachPayments(ctx, expenses); err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// ListAll retrieves every expense matching f oldest first, without payments. Used for reports.
func (r *Repository) ListAll(ctx context.Context, f Filter) ([]*Expense, error) {
	where, args := whereClause(f)
	return r.query(ctx, selectExpense+where+" ORDER BY e.created_at, e.id", args...)
}

// ListByEmployee retrieves an employee's expenses newest first, with payments
func (r *Repository) ListByEmployee(ctx context.Context, employeeID int64) ([]*Expense, error) {
	expenses, err := r.query(ctx, selectExpense+`WHERE e.employee_id = $1 ORDER BY e.created_at DESC, e.id DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	if err := r.attachPayments(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// attachPayments loads the payments of every expense in one query
func (r *Repository) attachPayments(ctx context.Context, expenses []*Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[int64]*Expense, len(expenses))
	placeholders := make([]string, len(expenses))
	args := make([]any, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = e.ID
	}

	query := `
		SELECT p.id, p.expense_id, p.amount, p.paid_at, p.created_by, u.username
		FROM payments p
		LEFT JOIN users u ON u.id = p.created_by
		WHERE p.expense_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY p.paid_at, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p           PaymentSummary
			createdBy   sql.NullInt64
			creatorName sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.ExpenseID, &p.Amount, &p.PaidAt, &createdBy, &creatorName); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		p.CreatedBy = user.NewRef(createdBy, creatorName)
		if e, ok := byID[p.ExpenseID]; ok {
			e.Payments = append(e.Payments, &p)
		}
	}
	return rows.Err()
}

// Update reassigns employee or category of an expense that is not PAID.
// It reports false when no unpaid expense with that id exists.
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateExpenseRequest, actorID int64) (bool, error) {
	query := `
		UPDATE expenses
		SET employee_id = COALESCE($2, employee_id),
		    category_id = COALESCE($3, category_id),
		    updated_by = $4,
		    updated_at = $5
		WHERE id = $1 AND status <> $6
	`

	result, err := r.db.ExecContext(ctx, query, id, req.EmployeeID, req.CategoryID, actorID, database.Now(), StatusPaid)
	if err != nil {
		return false, fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes an expense that is not PAID together with its payments.
// It reports false when no unpaid expense with that id exists.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1 AND status <> $2`, id, StatusPaid)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
