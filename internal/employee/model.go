package employee

import (
	"time"

	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/internal/user"
)

// Employee owns expenses. Employees are never hard deleted; IsActive goes false instead.
type Employee struct {
	ID          int64
	FullName    string
	Department  string
	Designation string
	IsActive    bool
	CreatedBy   *user.Ref
	CreatedAt   time.Time

	// Sum of amount_requested - amount_paid over the employee's expenses
	TotalRemaining money.Amount
}
