package http

import (
	"net/http"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/service"
)

type createUserRequest struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
	Password string          `json:"password"`
}

type updateUserRequest struct {
	Email  *string          `json:"email,omitempty"`
	Role   *domain.UserRole `json:"role,omitempty"`
	Active *bool            `json:"active,omitempty"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u := &domain.User{Username: req.Username, Email: req.Email, Role: req.Role}
	if err := h.svc.Users.CreateUser(r.Context(), actorFromContext(r.Context()), u, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.UpdateUser(r.Context(), actorFromContext(r.Context()), id, service.UserUpdate{
		Email:  req.Email,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Users.DeleteUser(r.Context(), actorFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Users.ResetPassword(r.Context(), actorFromContext(r.Context()), id, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
