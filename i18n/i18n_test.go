package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("fr-FR,es;q=0.8") != "es" {
		t.Fatalf("expected es as first supported language")
	}
	if DetectLanguage("") != "es" {
		t.Fatalf("expected default es")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("es", "required") != "Requerido" {
		t.Fatalf("expected Requerido")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to es translation
	if T("fr", "forbidden") != "No autorizado" {
		t.Fatalf("expected es fallback for fr lang")
	}
}

func TestMiddleware(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "en-US")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if got != "en" {
		t.Fatalf("expected en from header, got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/?lang=es", nil)
	r.Header.Set("Accept-Language", "en-US")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if got != "es" {
		t.Fatalf("query must win, got %q", got)
	}

	if FromContext(context.Background()) != DefaultLang {
		t.Fatal("empty context should use the default language")
	}
}
