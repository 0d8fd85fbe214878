package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/user"
)

const selectEmployee = `
	SELECT e.employee_id, e.full_name, e.department, e.designation, e.is_active,
	       e.created_by, u.username, e.created_at,
	       CAST(COALESCE((SELECT SUM(x.amount_requested - x.amount_paid) FROM expenses x WHERE x.employee_id = e.employee_id), 0) AS BIGINT)
	FROM employees e
	LEFT JOIN users u ON u.id = e.created_by
`

// Repository handles employee data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new employee repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*Employee, error) {
	var (
		e           Employee
		createdBy   sql.NullInt64
		creatorName sql.NullString
	)
	err := row.Scan(
		&e.ID,
		&e.FullName,
		&e.Department,
		&e.Designation,
		&e.IsActive,
		&createdBy,
		&creatorName,
		&e.CreatedAt,
		&e.TotalRemaining,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedBy = user.NewRef(createdBy, creatorName)
	return &e, nil
}

// Create inserts a new employee stamped with its creator
func (r *Repository) Create(ctx context.Context, req *CreateEmployeeRequest, actorID int64) (*Employee, error) {
	query := `
		INSERT INTO employees (full_name, department, designation, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING employee_id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, req.FullName, req.Department, req.Designation, true, actorID, database.Now()).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves an employee regardless of its active flag
func (r *Repository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx, selectEmployee+`WHERE e.employee_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// ListActive retrieves active employees with pagination
func (r *Repository) ListActive(ctx context.Context, limit, offset int) ([]*Employee, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE is_active = $1`, true).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, selectEmployee+`
		WHERE e.is_active = $1
		ORDER BY e.full_name, e.employee_id
		LIMIT $2 OFFSET $3
	`, true, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []*Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, total, nil
}

// Update modifies an existing employee; nil fields keep their value
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateEmployeeRequest) (*Employee, error) {
	query := `
		UPDATE employees
		SET full_name = COALESCE($2, full_name),
		    department = COALESCE($3, department),
		    designation = COALESCE($4, designation),
		    is_active = COALESCE($5, is_active)
		WHERE employee_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, req.FullName, req.Department, req.Designation, req.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// Deactivate soft deletes an employee. It reports false when the employee does not exist.
func (r *Repository) Deactivate(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE employees SET is_active = $2 WHERE employee_id = $1`, id, false)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate employee: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
