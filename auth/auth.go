// Package auth signs and parses the session cookie. It only knows session ids;
// mapping a session to a user and a remote token is the host application's job.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/diewo77/go-cotizaciones/httpx"
)

type ctxKey string

const (
	sessionCookieName = "session"
	sessionIDCtxKey   = ctxKey("sessionID")
)

// DefaultTTL is used when SetTTL was never called.
const DefaultTTL = 12 * time.Hour

// SessionVerifier is an optional callback to validate that a session still exists.
// Set it during app bootstrap via SetSessionVerifier. If nil, no extra verification is performed.
type SessionVerifier func(ctx context.Context, sessionID string) bool

var (
	verifier SessionVerifier
	ttl      = DefaultTTL
	secret   string
)

// SetSessionVerifier configures the global verifier used by RequireAuth.
func SetSessionVerifier(v SessionVerifier) { verifier = v }

// SetTTL configures the cookie lifetime.
func SetTTL(d time.Duration) {
	if d > 0 {
		ttl = d
	}
}

// SetSecret overrides the signing secret (otherwise SESSION_SECRET or a dev default).
func SetSecret(s string) { secret = s }

// Secret returns the configured secret, SESSION_SECRET or default dev value.
func Secret() string {
	if secret != "" {
		return secret
	}
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(value string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie carrying the session id.
func CreateSession(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID + "." + sign(sessionID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie and returns the session id.
func ParseSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	idx := strings.LastIndex(c.Value, ".")
	if idx <= 0 {
		return "", false
	}
	sid, sig := c.Value[:idx], c.Value[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(sign(sid))) {
		return "", false
	}
	return sid, true
}

// WithSessionID stores the session id in context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDCtxKey, sessionID)
}

// SessionIDFromContext extracts the session id.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDCtxKey).(string)
	return id, ok && id != ""
}

// Middleware attaches the session id to the request context if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sid, ok := ParseSession(r); ok {
			r = r.WithContext(WithSessionID(r.Context(), sid))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth answers 401 JSON when no valid session is attached.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, ok := SessionIDFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if verifier != nil && !verifier(r.Context(), sid) {
			// Session row is gone or expired: clear and treat as unauthorized.
			ClearSession(w)
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
