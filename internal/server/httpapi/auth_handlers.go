package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bookapi/internal/common"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, registerResponse{
			Message:  "User registered successfully",
			Username: acc.Username,
			Email:    acc.Email,
		})
	case errors.Is(err, common.ErrDuplicateAccount):
		writeError(w, http.StatusBadRequest, "Username already taken.")
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "username and password are required")
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Username: claims.Subject, Email: claims.Email})
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, common.ErrorInternal) {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
