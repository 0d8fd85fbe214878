package expense

import (
	"time"

	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/internal/user"
)

// CreateExpenseRequest represents the request to create an expense.
// Paid amount and status are not accepted; every expense starts UNPAID.
type CreateExpenseRequest struct {
	EmployeeID      int64        `json:"employee" validate:"required"`
	CategoryID      int64        `json:"category" validate:"required"`
	AmountRequested money.Amount `json:"amount_requested" swaggertype:"string" example:"100.00"`
}

// UpdateExpenseRequest represents the request to update an expense.
// The requested amount is fixed at creation.
type UpdateExpenseRequest struct {
	EmployeeID *int64 `json:"employee,omitempty"`
	CategoryID *int64 `json:"category,omitempty"`
}

// PaymentSummaryResponse is a payment embedded in an expense response
type PaymentSummaryResponse struct {
	ID        int64        `json:"id"`
	Amount    money.Amount `json:"amount" swaggertype:"string" example:"40.00"`
	PaidAt    string       `json:"paid_at"`
	CreatedBy *user.Ref    `json:"created_by"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID              int64                     `json:"id"`
	EmployeeID      int64                     `json:"employee"`
	EmployeeName    string                    `json:"employee_name"`
	CategoryID      int64                     `json:"category"`
	CategoryName    string                    `json:"category_name"`
	AmountRequested money.Amount              `json:"amount_requested" swaggertype:"string" example:"100.00"`
	AmountPaid      money.Amount              `json:"amount_paid" swaggertype:"string" example:"40.00"`
	RemainingAmount money.Amount              `json:"remaining_amount" swaggertype:"string" example:"60.00"`
	Status          Status                    `json:"status"`
	CreatedBy       *user.Ref                 `json:"created_by"`
	UpdatedBy       *user.Ref                 `json:"updated_by"`
	CreatedAt       string                    `json:"created_at"`
	UpdatedAt       string                    `json:"updated_at"`
	Payments        []*PaymentSummaryResponse `json:"payments"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	payments := make([]*PaymentSummaryResponse, len(e.Payments))
	for i, p := range e.Payments {
		payments[i] = p.ToResponse()
	}

	return &ExpenseResponse{
		ID:              e.ID,
		EmployeeID:      e.EmployeeID,
		EmployeeName:    e.EmployeeName,
		CategoryID:      e.CategoryID,
		CategoryName:    e.CategoryName,
		AmountRequested: e.AmountRequested,
		AmountPaid:      e.AmountPaid,
		RemainingAmount: e.Remaining(),
		Status:          e.Status,
		CreatedBy:       e.CreatedBy,
		UpdatedBy:       e.UpdatedBy,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.UTC().Format(time.RFC3339),
		Payments:        payments,
	}
}

// ToResponse converts a PaymentSummary to its response DTO
func (p *PaymentSummary) ToResponse() *PaymentSummaryResponse {
	return &PaymentSummaryResponse{
		ID:        p.ID,
		Amount:    p.Amount,
		PaidAt:    p.PaidAt.UTC().Format(time.RFC3339),
		CreatedBy: p.CreatedBy,
	}
}
