package user

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

func serve(t *testing.T, h http.Handler, actor *middleware.Principal, method, path, body string) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithPrincipal(req.Context(), actor))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp response.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rr, resp
}

func TestHandler_CreateAndGet(t *testing.T) {
	svc := newTestService(t)
	admin := mustBootstrap(t, svc, "admin", true)
	routes := NewHandler(svc).Routes()

	rr, resp := serve(t, routes, admin.Principal(), http.MethodPost, "/", `{"username":"clerk","email":"clerk@example.com","password":"long-enough-pw","is_superuser":true}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %+v", rr.Code, resp)
	}
	data := resp.Data.(map[string]any)
	if data["is_superuser"] != false {
		t.Error("is_superuser must not be settable through the API")
	}
	if _, leaked := data["password_hash"]; leaked {
		t.Error("password hash serialized")
	}

	rr, _ = serve(t, routes, admin.Principal(), http.MethodGet, "/abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rr.Code)
	}

	rr, resp = serve(t, routes, admin.Principal(), http.MethodGet, "/999", "")
	if rr.Code != http.StatusNotFound || resp.Error.Code != "USER_NOT_FOUND" {
		t.Errorf("missing user: %d %+v", rr.Code, resp.Error)
	}
}

func TestHandler_CreateValidation(t *testing.T) {
	svc := newTestService(t)
	admin := mustBootstrap(t, svc, "admin", true)
	routes := NewHandler(svc).Routes()

	rr, resp := serve(t, routes, admin.Principal(), http.MethodPost, "/", `{"username":"clerk"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp.Error.Message != "password is required" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestHandler_DisableRequiresSuperuser(t *testing.T) {
	svc := newTestService(t)
	staff := mustBootstrap(t, svc, "staff", false)
	other := mustBootstrap(t, svc, "other", false)
	routes := NewHandler(svc).Routes()

	rr, resp := serve(t, routes, staff.Principal(), http.MethodDelete, "/"+strconv.FormatInt(other.ID, 10), "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body %+v", rr.Code, resp)
	}
	if resp.Error.Message != "Only superadmin can delete or disable users" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}
