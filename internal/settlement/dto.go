package settlement

import (
	"time"

	"github.com/fkhayef/reimburse/internal/expense"
	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/internal/user"
)

// CreatePaymentRequest represents the request to pay toward an expense.
// The payment time and creator are set by the server.
type CreatePaymentRequest struct {
	ExpenseID int64        `json:"expense" validate:"required"`
	Amount    money.Amount `json:"amount" swaggertype:"string" example:"40.00"`
}

// PaymentResponse represents the response for a payment
type PaymentResponse struct {
	ID           int64        `json:"id"`
	ExpenseID    int64        `json:"expense"`
	EmployeeID   int64        `json:"employee"`
	EmployeeName string       `json:"employee_name"`
	Amount       money.Amount `json:"amount" swaggertype:"string" example:"40.00"`
	PaidAt       string       `json:"paid_at"`
	CreatedBy    *user.Ref    `json:"created_by"`
}

// ApplyPaymentResponse is returned after a payment is recorded
type ApplyPaymentResponse struct {
	Message string                   `json:"message"`
	Payment *PaymentResponse         `json:"payment"`
	Expense *expense.ExpenseResponse `json:"expense"`
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:           p.ID,
		ExpenseID:    p.ExpenseID,
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		Amount:       p.Amount,
		PaidAt:       p.PaidAt.UTC().Format(time.RFC3339),
		CreatedBy:    p.CreatedBy,
	}
}

func toResponses(payments []*Payment) []*PaymentResponse {
	out := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = p.ToResponse()
	}
	return out
}
