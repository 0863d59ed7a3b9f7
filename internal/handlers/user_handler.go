// File: internal/handlers/user_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/neochat/neochat/internal/dtos"
	"github.com/neochat/neochat/internal/middleware"
	"github.com/neochat/neochat/internal/services/user_services"
)

// UserHandler exposes directory search and profile editing.
type UserHandler struct {
	Directory *user_services.DirectoryService
	Session   *user_services.SessionService
}

func NewUserHandler(directory *user_services.DirectoryService, session *user_services.SessionService) *UserHandler {
	return &UserHandler{Directory: directory, Session: session}
}

// Search handles GET /api/users/search?q=...&filter=all|online|contacts.
// An unknown query returns an empty list, never an error.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query().Get("q")
	filter := user_services.SearchFilter(r.URL.Query().Get("filter"))
	switch filter {
	case user_services.FilterOnline, user_services.FilterContacts:
	default:
		filter = user_services.FilterAll
	}

	users, err := h.Directory.Search(r.Context(), username, query, filter)
	if err != nil {
		writeError(w, "Search failed", http.StatusInternalServerError)
		return
	}

	results := make([]dtos.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, dtos.NewUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, results)
}

// UpdateProfile merges partial profile fields into the session owner's
// record. A changed display name recomputes the avatar letters.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.Directory.Update(r.Context(), username, user_services.UserUpdate{
		DisplayName: req.DisplayName,
		Country:     req.Country,
		Bio:         req.Bio,
		Settings:    req.Settings,
	})
	if err != nil {
		if errors.Is(err, user_services.ErrUserNotFound) {
			writeError(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, "Profile update failed", http.StatusInternalServerError)
		return
	}

	h.Session.RefreshCurrent(r.Context())

	resp := dtos.NewUserResponse(u)
	writeJSON(w, http.StatusOK, resp)
}

// GetUser returns a single directory entry by username.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	name := r.URL.Query().Get("username")
	u, err := h.Directory.FindByUsername(r.Context(), name)
	if err != nil {
		if errors.Is(err, user_services.ErrUserNotFound) {
			writeError(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, "Lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewUserResponse(u))
}
