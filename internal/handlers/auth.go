package handlers

import (
	"net/http"

	"github.com/diewo77/go-cotizaciones/auth"
	"github.com/diewo77/go-cotizaciones/gate"
	"github.com/diewo77/go-cotizaciones/httpx"
	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/policy"
	"github.com/diewo77/go-cotizaciones/internal/services"
)

type AuthHandler struct {
	sessions *services.SessionService
}

func NewAuthHandler(sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionView is what the frontend needs to render navigation for a user.
type SessionView struct {
	User            models.User       `json:"user"`
	Permissions     []gate.Permission `json:"permissions"`
	CanModifyPrices bool              `json:"canModifyPrices"`
}

func sessionView(u models.User) SessionView {
	perms := policy.Permissions(&u)
	if perms == nil {
		perms = []gate.Permission{}
	}
	return SessionView{User: u, Permissions: perms, CanModifyPrices: u.CanModifyPrices()}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		invalidJSON(w, r)
		return
	}
	sess, user, v, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if v != nil {
		validationFailed(w, r, v)
		return
	}
	if err != nil {
		writeError(w, r, "auth", err)
		return
	}
	auth.CreateSession(w, sess.ID)
	httpx.OK(w, http.StatusOK, sessionView(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid, ok := auth.SessionIDFromContext(r.Context()); ok {
		if err := h.sessions.Logout(r.Context(), sid); err != nil {
			writeError(w, r, "auth", err)
			return
		}
	}
	auth.ClearSession(w)
	httpx.OK(w, http.StatusOK, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := policy.UserFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.OK(w, http.StatusOK, sessionView(u))
}
