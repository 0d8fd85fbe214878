package expense

import (
	"time"

	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/internal/user"
)

// Status is the settlement state of an expense, derived from its balance
type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

// DeriveStatus classifies an expense from what has been paid against what was requested
func DeriveStatus(paid, requested money.Amount) Status {
	switch {
	case paid <= 0:
		return StatusUnpaid
	case paid < requested:
		return StatusPartial
	default:
		return StatusPaid
	}
}

// Expense is a reimbursement request. AmountPaid and Status only change through settlement.
type Expense struct {
	ID              int64
	EmployeeID      int64
	CategoryID      int64
	AmountRequested money.Amount
	AmountPaid      money.Amount
	Status          Status
	CreatedBy       *user.Ref
	UpdatedBy       *user.Ref
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Populated via JOIN
	EmployeeName string
	CategoryName string
	Payments     []*PaymentSummary
}

// Remaining is the balance still owed; never negative
func (e *Expense) Remaining() money.Amount {
	if e.AmountPaid >= e.AmountRequested {
		return 0
	}
	return e.AmountRequested - e.AmountPaid
}

// IsPaid reports whether the expense reached its terminal state
func (e *Expense) IsPaid() bool {
	return e.Status == StatusPaid
}

// PaymentSummary is a payment as embedded in an expense
type PaymentSummary struct {
	ID        int64
	ExpenseID int64
	Amount    money.Amount
	PaidAt    time.Time
	CreatedBy *user.Ref
}

// Filter narrows expense listings; zero values mean no restriction
type Filter struct {
	EmployeeID int64
	Range      DateRange
}
