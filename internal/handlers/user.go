package handlers

import (
	"net/http"

	"github.com/diewo77/go-cotizaciones/httpx"
	"github.com/diewo77/go-cotizaciones/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, "users", err)
		return
	}
	httpx.OK(w, http.StatusOK, users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w, r)
		return
	}
	u, v, err := h.users.Create(r.Context(), in)
	if v != nil {
		validationFailed(w, r, v)
		return
	}
	if err != nil {
		writeError(w, r, "users", err)
		return
	}
	httpx.OK(w, http.StatusCreated, u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w, r)
		return
	}
	u, v, err := h.users.Update(r.Context(), pathID(r, "id"), in)
	if v != nil {
		validationFailed(w, r, v)
		return
	}
	if err != nil {
		writeError(w, r, "users", err)
		return
	}
	httpx.OK(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), currentUser(r), pathID(r, "id")); err != nil {
		writeError(w, r, "users", err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}
