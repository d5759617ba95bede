package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Portfolio/internal/sessions"
)

func TestAdminOnly(t *testing.T) {
	called := false
	h := AdminOnly(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodDelete, "/images/a.jpg", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("anonymous: status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Unauthorized"`) {
		t.Errorf("anonymous: body = %s", rec.Body.String())
	}
	if called {
		t.Error("handler must not run for anonymous request")
	}

	req := httptest.NewRequest(http.MethodDelete, "/images/a.jpg", nil)
	req = req.WithContext(sessions.WithState(req.Context(), sessions.State{IsAdmin: true}))
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusNoContent || !called {
		t.Errorf("admin: status = %d, called = %v", rec.Code, called)
	}
}

func TestSessionLoadsState(t *testing.T) {
	m, err := sessions.NewManager(sessions.Options{Dir: t.TempDir(), Secret: "s", MaxAge: 60}, nil)
	if err != nil {
		t.Fatal(err)
	}

	login := httptest.NewRecorder()
	if err := m.SetAdmin(login, httptest.NewRequest(http.MethodPost, "/login", nil)); err != nil {
		t.Fatal(err)
	}

	var got sessions.State
	h := Session(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = sessions.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/is-admin", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !got.IsAdmin {
		t.Error("expected admin state in context")
	}
}

func TestAdminOnlyMW(t *testing.T) {
	h := AdminOnlyMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/about/text", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("anonymous: status = %d, want 403", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/about/text", nil)
	req = req.WithContext(sessions.WithState(req.Context(), sessions.State{IsAdmin: true}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("admin: status = %d, want 204", rec.Code)
	}
}
