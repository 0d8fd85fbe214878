package employee

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/fkhayef/reimburse/pkg/middleware"
	"github.com/fkhayef/reimburse/pkg/response"
)

func TestHandler_CreateListDelete(t *testing.T) {
	svc, _, actorID := setup(t)
	routes := NewHandler(svc).Routes()
	actor := &middleware.Principal{UserID: actorID, Username: "admin", IsActive: true, IsStaff: true}

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req = req.WithContext(middleware.WithPrincipal(req.Context(), actor))
		rr := httptest.NewRecorder()
		routes.ServeHTTP(rr, req)
		return rr
	}

	rr := do(http.MethodPost, "/", `{"full_name":"Ada","department":"R&D","designation":"Analyst"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data EmployeeResponse `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.FullName != "Ada" || created.Data.TotalRemainingAmount != 0 {
		t.Errorf("unexpected body %+v", created.Data)
	}

	rr = do(http.MethodPost, "/", `{"full_name":"Ada"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing fields status = %d", rr.Code)
	}

	rr = do(http.MethodGet, "/", "")
	var list response.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Meta == nil || list.Meta.Total != 1 {
		t.Errorf("list meta = %+v", list.Meta)
	}

	path := "/" + strconv.FormatInt(created.Data.EmployeeID, 10)
	if rr = do(http.MethodDelete, path, ""); rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rr.Code)
	}
	if rr = do(http.MethodDelete, "/999", ""); rr.Code != http.StatusNotFound {
		t.Errorf("delete missing status = %d", rr.Code)
	}
}
