package employee

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/reimburse/pkg/middleware"
	"github.com/fkhayef/reimburse/pkg/request"
	"github.com/fkhayef/reimburse/pkg/response"
)

// Handler handles HTTP requests for employee operations
type Handler struct {
	service *Service
}

// NewHandler creates a new employee handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for employee endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /employees
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateEmployeeRequest true "Employee creation request"
// @Success      201 {object} response.APIResponse{data=EmployeeResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /employees [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateEmployeeRequest
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

// GetByID handles GET /employees/{id}
// @Summary      Get employee by ID
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Employee ID"
// @Success      200 {object} response.APIResponse{data=EmployeeResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /employees/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid employee ID")
		return
	}

	e, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// List handles GET /employees
// @Summary      List active employees
// @Description  Active employees with the outstanding balance over their expenses
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]EmployeeResponse}
// @Router       /employees [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := request.Page(r)

	employees, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	employeeResponses := make([]*EmployeeResponse, len(employees))
	for i, e := range employees {
		employeeResponses[i] = e.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, employeeResponses, response.NewMeta(page, perPage, total))
}

// Update handles PUT /employees/{id}
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Employee ID"
// @Param        request body UpdateEmployeeRequest true "Employee update request"
// @Success      200 {object} response.APIResponse{data=EmployeeResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /employees/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid employee ID")
		return
	}

	var req UpdateEmployeeRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	e, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete handles DELETE /employees/{id}
// @Summary      Deactivate an employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id path int true "Employee ID"
// @Success      204
// @Failure      404 {object} response.APIResponse
// @Router       /employees/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid employee ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.NoContent(w)
}
