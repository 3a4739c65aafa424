// HTTP handler for the operator login endpoint.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	domainauth "github.com/mercurylabs/mercury/internal/domain/auth"
)

// LoginService exchanges the operator password for a token.
type LoginService interface {
	Login(password string) (string, error)
}

// AuthHandler handles POST /auth/login.
type AuthHandler struct {
	svc LoginService
}

func NewAuthHandler(svc LoginService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is the response body after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /auth/login.
//
// Response codes:
//   - 200 OK: token issued
//   - 401 Unauthorized: wrong password
//   - 503 Service Unavailable: auth is not configured
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(req.Password)
	switch {
	case errors.Is(err, domainauth.ErrDisabled):
		writeError(w, http.StatusServiceUnavailable, "authentication is not enabled")
	case errors.Is(err, domainauth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "login failed")
	default:
		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}
