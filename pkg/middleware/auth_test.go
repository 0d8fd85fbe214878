package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeTokens map[string]int64

func (f fakeTokens) VerifyAccessToken(token string) (int64, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

type fakeUsers map[int64]*Principal

func (f fakeUsers) LoadPrincipal(_ context.Context, id int64) (*Principal, error) {
	return f[id], nil
}

func TestAuthenticate(t *testing.T) {
	tokens := fakeTokens{"staff": 1, "inactive": 2, "plain": 3, "ghost": 99}
	users := fakeUsers{
		1: {UserID: 1, Username: "admin", IsActive: true, IsStaff: true},
		2: {UserID: 2, Username: "gone", IsActive: false, IsStaff: true},
		3: {UserID: 3, Username: "viewer", IsActive: true},
	}

	var gotID int64
	handler := Authenticate(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"unknown user", "Bearer ghost", http.StatusUnauthorized},
		{"inactive user", "Bearer inactive", http.StatusUnauthorized},
		{"not staff", "Bearer plain", http.StatusForbidden},
		{"staff", "Bearer staff", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID = 0
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotID != 1 {
				t.Errorf("user id in context = %d, want 1", gotID)
			}
		})
	}
}

func TestGetPrincipal_Missing(t *testing.T) {
	if _, ok := GetPrincipal(context.Background()); ok {
		t.Error("expected no principal")
	}
	if _, ok := GetUserID(context.Background()); ok {
		t.Error("expected no user id")
	}
}
