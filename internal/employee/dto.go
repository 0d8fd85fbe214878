package employee

import (
	"time"

	"github.com/fkhayef/reimburse/internal/money"
	"github.com/fkhayef/reimburse/internal/user"
)

// CreateEmployeeRequest represents the request body for creating an employee
type CreateEmployeeRequest struct {
	FullName    string `json:"full_name" validate:"required,max=150"`
	Department  string `json:"department" validate:"required,max=100"`
	Designation string `json:"designation" validate:"required,max=100"`
}

// UpdateEmployeeRequest represents the request body for updating an employee
type UpdateEmployeeRequest struct {
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=150"`
	Department  *string `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
	Designation *string `json:"designation,omitempty" validate:"omitempty,min=1,max=100"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// EmployeeResponse represents the response for a single employee
type EmployeeResponse struct {
	EmployeeID           int64        `json:"employee_id"`
	FullName             string       `json:"full_name"`
	Department           string       `json:"department"`
	Designation          string       `json:"designation"`
	IsActive             bool         `json:"is_active"`
	CreatedBy            *user.Ref    `json:"created_by"`
	CreatedAt            string       `json:"created_at"`
	TotalRemainingAmount money.Amount `json:"total_remaining_amount" swaggertype:"string" example:"60.00"`
}

// SummaryResponse is the short form embedded in other resources
type SummaryResponse struct {
	EmployeeID  int64  `json:"employee_id"`
	FullName    string `json:"full_name"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// ToResponse converts an Employee model to an EmployeeResponse DTO
func (e *Employee) ToResponse() *EmployeeResponse {
	return &EmployeeResponse{
		EmployeeID:           e.ID,
		FullName:             e.FullName,
		Department:           e.Department,
		Designation:          e.Designation,
		IsActive:             e.IsActive,
		CreatedBy:            e.CreatedBy,
		CreatedAt:            e.CreatedAt.UTC().Format(time.RFC3339),
		TotalRemainingAmount: e.TotalRemaining,
	}
}

// ToSummary converts an Employee model to its short form
func (e *Employee) ToSummary() *SummaryResponse {
	return &SummaryResponse{
		EmployeeID:  e.ID,
		FullName:    e.FullName,
		Department:  e.Department,
		Designation: e.Designation,
	}
}
