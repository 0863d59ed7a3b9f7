// File: internal/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/neochat/neochat/internal/dtos"
	"github.com/neochat/neochat/internal/middleware"
	"github.com/neochat/neochat/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	Auth    *user_services.AuthService
	Session *user_services.SessionService
}

func NewAuthHandler(auth *user_services.AuthService, session *user_services.SessionService) *AuthHandler {
	return &AuthHandler{Auth: auth, Session: session}
}

// Register handles new user registrations. Validation failures come back as
// 400 with the violated rule's kind so the form can highlight the field.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.Session.Register(r.Context(), user_services.RegistrationForm{
		Username:        req.Username,
		DisplayName:     req.DisplayName,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Country:         req.Country,
		Consent:         req.Consent,
	})
	if err != nil {
		if ve, ok := user_services.AsValidationError(err); ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": ve.Message,
				"kind":  string(ve.Kind),
			})
			return
		}
		writeError(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	token, err := h.Auth.TokenFor(u)
	if err != nil {
		writeError(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	middleware.SetAuthCookie(w, token)
	writeJSON(w, http.StatusCreated, dtos.NewUserResponse(u))
}

// Login validates credentials and installs the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.Session.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user_services.ErrUserNotFound) || errors.Is(err, user_services.ErrWrongPassword) {
			writeError(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		writeError(w, "Login failed", http.StatusInternalServerError)
		return
	}

	token, err := h.Auth.TokenFor(u)
	if err != nil {
		writeError(w, "Login failed", http.StatusInternalServerError)
		return
	}

	middleware.SetAuthCookie(w, token)
	writeJSON(w, http.StatusOK, dtos.NewUserResponse(u))
}

// Logout ends the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout(r.Context())
	middleware.ClearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the session owner, or 401 when logged out.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := h.Session.CurrentUser()
	if u == nil {
		writeError(w, "Not logged in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewUserResponse(u))
}
