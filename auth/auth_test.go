package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateAndParseSession(t *testing.T) {
	SetSecret("test-secret")
	defer SetSecret("")

	w := httptest.NewRecorder()
	CreateSession(w, "3f2c9a10-aaaa-bbbb-cccc-0123456789ab")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	sid, ok := ParseSession(r)
	if !ok {
		t.Fatal("expected valid session")
	}
	if sid != "3f2c9a10-aaaa-bbbb-cccc-0123456789ab" {
		t.Fatalf("unexpected session id %q", sid)
	}
}

func TestParseSession_TamperedSignature(t *testing.T) {
	SetSecret("test-secret")
	defer SetSecret("")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "abc.not-a-signature"})
	if _, ok := ParseSession(r); ok {
		t.Fatal("tampered cookie must be rejected")
	}
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "nodot"})
	if _, ok := ParseSession(r2); ok {
		t.Fatal("cookie without signature must be rejected")
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequireAuth(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quotes", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}

	SetSessionVerifier(func(_ context.Context, sid string) bool { return sid == "alive" })
	defer SetSessionVerifier(nil)

	r := httptest.NewRequest(http.MethodGet, "/quotes", nil)
	r = r.WithContext(WithSessionID(r.Context(), "alive"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/quotes", nil)
	r = r.WithContext(WithSessionID(r.Context(), "expired"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for dead session got %d", w.Code)
	}
}
