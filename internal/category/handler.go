package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/reimburse/pkg/request"
	"github.com/fkhayef/reimburse/pkg/response"
)

// Handler handles HTTP requests for category operations
type Handler struct {
	service *Service
}

// NewHandler creates a new category handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for category endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /categories
// @Summary      Create an expense category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCategoryRequest true "Category creation request"
// @Success      201 {object} response.APIResponse{data=Category}
// @Failure      400 {object} response.APIResponse
// @Router       /categories [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	c, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, c)
}

// List handles GET /categories
// @Summary      List active expense categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]Category}
// @Router       /categories [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, categories)
}

// GetByID handles GET /categories/{id}
// @Summary      Get an expense category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Success      200 {object} response.APIResponse{data=Category}
// @Failure      404 {object} response.APIResponse
// @Router       /categories/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

// Update handles PUT /categories/{id}
// @Summary      Update an expense category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Param        request body UpdateCategoryRequest true "Category update request"
// @Success      200 {object} response.APIResponse{data=Category}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /categories/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := request.Decode(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}

	c, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

// Delete handles DELETE /categories/{id}
// @Summary      Deactivate an expense category
// @Tags         categories
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Success      204
// @Failure      404 {object} response.APIResponse
// @Router       /categories/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.IDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.NoContent(w)
}
