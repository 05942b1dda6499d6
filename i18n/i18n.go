// Package i18n turns machine error codes into short user-facing messages.
package i18n

import (
	"context"
	"net/http"
	"strings"
)

// DefaultLang is used when the client states no supported language.
const DefaultLang = "es"

var translations = map[string]map[string]string{
	"es": {
		"required":             "Requerido",
		"invalid_email":        "Correo electrónico inválido",
		"too_short":            "Demasiado corto",
		"too_small":            "Debe ser al menos 1",
		"must_be_positive":     "Debe ser mayor que cero",
		"must_not_be_negative": "No puede ser negativo",
		"invalid_choice":       "Opción no válida",
		"duplicate_code":       "El producto ya está en la cotización",
		"unknown_product":      "El producto no existe en el catálogo",
		"invalid_json":         "Solicitud mal formada",
		"validation_failed":    "Revisa los campos marcados",
		"not_found":            "No encontrado",
		"unauthorized":         "Sesión no válida o expirada",
		"forbidden":            "No autorizado",
		"invalid_credentials":  "Correo o contraseña incorrectos",
		"price_locked":         "No tienes permiso para modificar precios",
		"self_delete":          "No puedes eliminar tu propio usuario",
		"file_required":        "Selecciona un archivo",
		"file_unreadable":      "No se pudo leer el archivo",
		"unsupported_file":     "Formato no soportado: usa .xlsx o .xls",
		"empty_import":         "El archivo no contiene filas válidas",
		"images_disabled":      "La búsqueda de imágenes no está configurada",
		"remote_error":         "Error del servicio de datos",
		"internal_error":       "Error interno",
	},
	"en": {
		"required":             "Required",
		"invalid_email":        "Invalid email address",
		"too_short":            "Too short",
		"too_small":            "Must be at least 1",
		"must_be_positive":     "Must be greater than zero",
		"must_not_be_negative": "Must not be negative",
		"invalid_choice":       "Invalid choice",
		"duplicate_code":       "The product is already in the quote",
		"unknown_product":      "The product is not in the catalog",
		"invalid_json":         "Malformed request",
		"validation_failed":    "Check the highlighted fields",
		"not_found":            "Not found",
		"unauthorized":         "Invalid or expired session",
		"forbidden":            "Not allowed",
		"invalid_credentials":  "Wrong email or password",
		"price_locked":         "You are not allowed to change prices",
		"self_delete":          "You cannot delete your own user",
		"file_required":        "Choose a file",
		"file_unreadable":      "The file could not be read",
		"unsupported_file":     "Unsupported format: use .xlsx or .xls",
		"empty_import":         "The file has no valid rows",
		"images_disabled":      "Image discovery is not configured",
		"remote_error":         "Data service error",
		"internal_error":       "Internal error",
	},
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if _, ok := translations[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// T translates code, falling back to the default language and then to the code itself.
func T(lang, code string) string {
	if msg, ok := translations[lang][code]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLang][code]; ok {
		return msg
	}
	return code
}

type ctxKey struct{}

// WithLang stores the language in context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromContext returns the request language, or DefaultLang.
func FromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

// Middleware resolves the language from ?lang= or Accept-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := DetectLanguage(r.Header.Get("Accept-Language"))
		if q := r.URL.Query().Get("lang"); q != "" {
			if _, ok := translations[strings.ToLower(q)]; ok {
				lang = strings.ToLower(q)
			}
		}
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}
