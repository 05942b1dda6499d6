package remote

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginResponse is the answer to a successful login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}

type AuthService struct{ c *Client }

// Login exchanges credentials for a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	in := map[string]string{"email": email, "password": password}
	if err := s.c.Do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the token carried by ctx.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Verify returns the user owning the token carried by ctx.
func (s *AuthService) Verify(ctx context.Context) (*UserRecord, error) {
	var out struct {
		User *UserRecord `json:"user"`
	}
	if err := s.c.Do(ctx, http.MethodGet, "/auth/verify", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "token sin usuario"}
	}
	return out.User, nil
}

// Refresh trades the token carried by ctx for a new one.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := s.c.Do(ctx, http.MethodPost, "/auth/refresh", nil, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// TokenExpiry reads the exp claim without verifying the signature; only the
// data service can verify its own tokens.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// NeedsRefresh reports whether token expires within window of now.
// Tokens without a readable expiry are never refreshed.
func NeedsRefresh(token string, window time.Duration, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return exp.Sub(now) < window
}
