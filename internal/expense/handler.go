package expense

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/reimburse/internal/employee"
	"github.com/fkhayef/reimburse/pkg/middleware"
	"github.com/fkhayef/reimburse/pkg/request"
	"github.com/fkhayef/reimburse/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// EmployeeExpensesResponse is an employee together with its expenses
type EmployeeExpensesResponse struct {
	Employee *employee.SummaryResponse `json:"employee"`
	Expenses []*ExpenseResponse        `json:"expenses"`
}

func toResponses(expenses []*Expense) []*ExpenseResponse {
	out := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToResponse()
	}
	return out
}

// Create handles POST /expenses
// @Summary      Create an expense
// @Description  Record a reimbursement request. It starts UNPAID with nothing paid.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	e, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse())
}

// GetByID handles GET /expenses/{id}
// @Summary      Get an expense with its payments
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	e, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// List handles GET /expenses
// @Summary      List expenses
// @Description  Newest first. The date range is inclusive and needs both bounds.
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        employee query int false "Employee ID"
// @Param        start_date query string false "First creation date (YYYY-MM-DD)"
// @Param        end_date query string false "Last creation date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f Filter
	if raw := q.Get("employee"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			response.BadRequest(w, "Invalid employee ID")
			return
		}
		f.EmployeeID = id
	}

	dateRange, err := ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	f.Range = dateRange

	page, perPage := request.Page(r)
	expenses, total, err := h.service.List(r.Context(), f, page, perPage)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, toResponses(expenses), response.NewMeta(page, perPage, total))
}

// Update handles PUT /expenses/{id}
// @Summary      Update an expense
// @Description  Reassign employee or category. Paid expenses are immutable.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Expense update request"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateExpenseRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	e, err := h.service.Update(r.Context(), actorID, id, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Removes an unpaid expense and its payments
// @Tags         expenses
// @Security     BearerAuth
// @Param        id path int true "Expense ID"
// @Success      204
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.NoContent(w)
}

// ListByEmployee handles GET /employees/{id}/expenses
// @Summary      List an employee's expenses
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Employee ID"
// @Success      200 {object} response.APIResponse{data=EmployeeExpensesResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /employees/{id}/expenses [get]
func (h *Handler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid employee ID")
		return
	}

	emp, expenses, err := h.service.ListByEmployee(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &EmployeeExpensesResponse{
		Employee: emp.ToSummary(),
		Expenses: toResponses(expenses),
	})
}
