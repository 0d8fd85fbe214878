package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/reimburse/pkg/request"
	"github.com/fkhayef/reimburse/pkg/response"
)

// Handler handles HTTP requests for report downloads
type Handler struct {
	service *Service
}

// NewHandler creates a new report handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for report endpoints. POST reads the range from the body,
// GET from the query string.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/excel", h.Excel)
	r.Get("/excel", h.Excel)
	r.Post("/pdf", h.PDF)
	r.Get("/pdf", h.PDF)

	return r
}

func rangeRequest(r *http.Request) (*RangeRequest, error) {
	req := &RangeRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		if err := request.Decode(r, req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Excel handles /reports/excel
// @Summary      Download the expense workbook
// @Description  One row per expense created in the optional inclusive date range
// @Tags         reports
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        request body RangeRequest false "Date range"
// @Success      200 {file} file
// @Failure      400 {object} response.APIResponse
// @Router       /reports/excel [post]
func (h *Handler) Excel(w http.ResponseWriter, r *http.Request) {
	req, err := rangeRequest(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	f, err := h.service.Excel(r.Context(), req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Attachment(w, f.ContentType, f.Name, f.Data)
}

// PDF handles /reports/pdf
// @Summary      Download the expense document
// @Description  A4 table of the expenses created in the optional inclusive date range
// @Tags         reports
// @Accept       json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        request body RangeRequest false "Date range"
// @Success      200 {file} file
// @Failure      400 {object} response.APIResponse
// @Router       /reports/pdf [post]
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	req, err := rangeRequest(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	f, err := h.service.PDF(r.Context(), req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Attachment(w, f.ContentType, f.Name, f.Data)
}
