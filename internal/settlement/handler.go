package settlement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/reimburse/pkg/middleware"
	"github.com/fkhayef/reimburse/pkg/request"
	"github.com/fkhayef/reimburse/pkg/response"
)

// Handler handles HTTP requests for payment operations
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for payment endpoints. There is no update route.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /payments
// @Summary      Pay toward an expense
// @Description  Adds to the paid amount and re-derives the status. Rejected when the expense is already PAID, the amount is not positive, or it exceeds the remaining balance.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePaymentRequest true "Payment request"
// @Success      201 {object} response.APIResponse{data=ApplyPaymentResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /payments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreatePaymentRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	p, e, err := h.service.ApplyPayment(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, &ApplyPaymentResponse{
		Message: "Payment added successfully",
		Payment: p.ToResponse(),
		Expense: e.ToResponse(),
	})
}

// List handles GET /payments
// @Summary      List payments
// @Description  Newest first
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]PaymentResponse}
// @Router       /payments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := request.Page(r)

	payments, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, toResponses(payments), response.NewMeta(page, perPage, total))
}

// GetByID handles GET /payments/{id}
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Payment ID"
// @Success      200 {object} response.APIResponse{data=PaymentResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /payments/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Delete handles DELETE /payments/{id}
// @Summary      Delete a payment
// @Description  Reverses the payment on its expense. Payments of a PAID expense cannot be deleted.
// @Tags         payments
// @Security     BearerAuth
// @Param        id path int true "Payment ID"
// @Success      204
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /payments/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeletePayment(r.Context(), actorID, id); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.NoContent(w)
}

// ListByEmployee handles GET /employees/{id}/payments
// @Summary      List an employee's payments
// @Description  Oldest first
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Employee ID"
// @Success      200 {object} response.APIResponse{data=[]PaymentResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /employees/{id}/payments [get]
func (h *Handler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid employee ID")
		return
	}

	payments, err := h.service.ListByEmployee(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(payments))
}
