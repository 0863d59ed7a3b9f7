// File: internal/handlers/settings_handler.go
package handlers

import (
	"net/http"

	"github.com/neochat/neochat/internal/domain"
	"github.com/neochat/neochat/internal/middleware"
	"github.com/neochat/neochat/internal/services/settings_services"
)

// SettingsHandler exposes the app-settings and profile-customization blobs.
type SettingsHandler struct {
	Settings *settings_services.SettingsService
}

func NewSettingsHandler(settings *settings_services.SettingsService) *SettingsHandler {
	return &SettingsHandler{Settings: settings}
}

// GetSettings returns the stored settings, or defaults when none are stored.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.Settings.AppSettings(r.Context()))
}

// SaveSettings persists the full settings record.
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var settings domain.Settings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Settings.SaveAppSettings(r.Context(), settings); err != nil {
		writeError(w, "Could not save settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// ResetSettings restores defaults.
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	defaults, err := h.Settings.ResetAppSettings(r.Context())
	if err != nil {
		writeError(w, "Could not reset settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, defaults)
}

// GetProfile returns the profile-customization blob.
func (h *SettingsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.Settings.Profile(r.Context()))
}

// SaveProfile persists the profile-customization blob.
func (h *SettingsHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var profile domain.Profile
	if err := decodeJSON(r, &profile); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Settings.SaveProfile(r.Context(), profile); err != nil {
		writeError(w, "Could not save profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ClearHistory empties chats and message logs; contacts survive.
func (h *SettingsHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Settings.ClearHistory(r.Context()); err != nil {
		writeError(w, "Could not clear history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
