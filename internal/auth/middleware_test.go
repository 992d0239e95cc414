package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// okHandler records whether it ran and what identity it saw.
type okHandler struct {
	called   bool
	identity Identity
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.identity, _ = IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	ts := newTestTokenService(t)
	want := testIdentity()
	token, err := ts.Issue(want)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	next := &okHandler{}
	handler := RequireAuth(ts)(next)

	req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !next.called {
		t.Fatal("wrapped handler was never called")
	}
	if next.identity != want {
		t.Errorf("identity in context = %+v, want %+v", next.identity, want)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	ts := newTestTokenService(t)
	expired, _ := ts.IssueWithDuration(testIdentity(), -time.Minute)
	valid, _ := ts.Issue(testIdentity())

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "no bearer scheme", header: valid},
		{name: "wrong scheme", header: "Basic " + valid},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.token"},
		{name: "expired token", header: "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &okHandler{}
			handler := RequireAuth(ts)(next)

			req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			if next.called {
				t.Error("wrapped handler ran despite invalid credentials")
			}
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := IdentityFromContext(req.Context()); ok {
		t.Error("IdentityFromContext() reported an identity on a bare context")
	}
}
