// File: internal/domain/settings.go
package domain

// Settings is the per-user application preference record. It is persisted as
// an opaque JSON blob; a missing blob always means DefaultSettings, never an
// error.
type Settings struct {
	Theme                string `json:"theme"`
	FontSize             string `json:"font_size"`
	BorderRadius         int    `json:"border_radius"`
	Animations           bool   `json:"animations"`
	OnlineStatus         bool   `json:"online_status"`
	LastSeen             bool   `json:"last_seen"`
	MessageNotifications bool   `json:"message_notifications"`
	Sound                bool   `json:"sound"`
	NotificationType     string `json:"notification_type"`
	Preview              bool   `json:"preview"`
	SaveHistory          bool   `json:"save_history"`
	AutoDeleteMessages   string `json:"auto_delete_messages"`
	Sync                 bool   `json:"sync"`
	WhoCanMessage        string `json:"who_can_message"`
	Forwarding           bool   `json:"forwarding"`
}

// DefaultSettings returns the out-of-the-box preference record.
func DefaultSettings() Settings {
	return Settings{
		Theme:                "dark",
		FontSize:             "medium",
		BorderRadius:         12,
		Animations:           true,
		OnlineStatus:         true,
		LastSeen:             true,
		MessageNotifications: true,
		Sound:                true,
		NotificationType:     "all",
		Preview:              true,
		SaveHistory:          true,
		AutoDeleteMessages:   "never",
		Sync:                 true,
		WhoCanMessage:        "everyone",
		Forwarding:           true,
	}
}

// Profile holds the profile-customization data (accent color, banner, custom
// avatar). The core treats every field as opaque presentation state.
type Profile struct {
	AccentColor  string `json:"accent_color,omitempty"`
	Theme        string `json:"theme,omitempty"`
	Banner       string `json:"banner,omitempty"`
	CustomAvatar string `json:"custom_avatar,omitempty"`
}
