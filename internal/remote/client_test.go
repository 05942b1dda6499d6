package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestDo_AttachesBearerAndUnwrapsData(t *testing.T) {
	gotAuth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth <- r.Header.Get("Authorization")
		if r.URL.Path != "/productos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":7,"sku":"MX-1","nombre":"Monitor","precioBase":100.5}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	ctx := WithToken(context.Background(), "tok")
	list, err := c.Products.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if h := <-gotAuth; h != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", h)
	}
	if len(list) != 1 || list[0].ID != "7" || list[0].PrecioBase != 100.5 {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected Authorization %q", h)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, time.Second).Clients.List(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestDo_NonSuccessReturnsAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Cliente no encontrado"}`, "Cliente no encontrado"},
		{"error field", `{"error":"sin permiso"}`, "sin permiso"},
		{"plain text", `boom`, "boom"},
		{"empty", ``, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, time.Second).Clients.Get(context.Background(), "3")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != http.StatusNotFound || apiErr.Message != tt.want {
				t.Fatalf("unexpected error %+v", apiErr)
			}
			if !IsNotFound(err) {
				t.Fatal("IsNotFound should match")
			}
		})
	}
}

func TestBatchCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/clientes/batch" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in []ClientRecord
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(BatchResult{Created: len(in)})
	}))
	defer srv.Close()

	res, err := New(srv.URL, time.Second).Clients.BatchCreate(context.Background(), []ClientRecord{{EmpresaResponsable: "A"}, {EmpresaResponsable: "B"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestAuth_LoginAndVerify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"abc","user":{"id":"u1","nombre":"Ana","email":"ana@example.com","rol":"vendedor","extra":{"assignedCompanyId":3}}}`))
	})
	mux.HandleFunc("GET /auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Token inválido"}`))
			return
		}
		w.Write([]byte(`{"user":{"id":1,"nombre":"Ana","rol":"vendedor"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	lr, err := c.Auth.Login(context.Background(), "ana@example.com", "secreto")
	if err != nil {
		t.Fatal(err)
	}
	if lr.Token != "abc" || lr.User.Extra.AssignedCompanyID != "3" {
		t.Fatalf("unexpected login response %+v", lr)
	}

	if _, err := c.Auth.Verify(context.Background()); !IsUnauthorized(err) {
		t.Fatalf("expected 401 without token, got %v", err)
	}
	u, err := c.Auth.Verify(WithToken(context.Background(), "abc"))
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "1" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Minute).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("not-our-secret"))
	if err != nil {
		t.Fatal(err)
	}

	got, ok := TokenExpiry(tok)
	if !ok || !got.Equal(exp) {
		t.Fatalf("TokenExpiry() = %v, %v; want %v", got, ok, exp)
	}
	if !NeedsRefresh(tok, 5*time.Minute, time.Now()) {
		t.Fatal("token expiring in 2m should refresh with a 5m window")
	}
	if NeedsRefresh(tok, time.Minute, time.Now()) {
		t.Fatal("token expiring in 2m should not refresh with a 1m window")
	}
	if _, ok := TokenExpiry("opaque-token"); ok {
		t.Fatal("opaque tokens have no expiry")
	}
	if NeedsRefresh("opaque-token", time.Hour, time.Now()) {
		t.Fatal("opaque tokens are never refreshed")
	}
}
