package settlement

import (
	"time"

	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/internal/user"
)

// Payment is an amount paid toward an expense. Payments are never edited; a mistaken
// payment is deleted, which reverses it against the expense balance.
type Payment struct {
	ID        int64
	ExpenseID int64
	Amount    money.Amount
	PaidAt    time.Time
	CreatedBy *user.Ref

	// Populated via JOIN
	EmployeeID   int64
	EmployeeName string
}
